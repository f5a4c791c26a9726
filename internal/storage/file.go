package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "minikv/pkg/logx"
	"minikv/pkg/timeutil"
)

// fileStore is a dependency-free persistence backend.
//
// Files:
//   - <prefix>.snapshot.json  (full-map snapshot, written atomically)
//   - <prefix>.journal.jsonl  (append-only journal, replayed on open)
//
// The journal is compacted into the snapshot every snapshotEvery writes
// and on Compact().
type fileStore struct {
	log logx.Logger

	mu sync.Mutex

	snapshotPath string
	journalFile  *os.File
	data         map[string][]byte

	writes        int
	snapshotEvery int

	// syncEachWrite is set when no flush interval is configured.
	syncEachWrite bool
	flushStop     chan struct{}
	flushWG       sync.WaitGroup
}

type journalRecord struct {
	Op    string `json:"op"` // "put" | "del"
	Key   string `json:"key"`
	Value []byte `json:"value,omitempty"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	snapPath, journalPath := filePaths(cfg)

	data := map[string][]byte{}
	_ = loadSnapshot(snapPath, data)
	_ = replayJournal(journalPath, data)

	jf, err := os.OpenFile(journalPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}

	every := cfg.SnapshotEvery
	if every <= 0 {
		every = 1000
	}

	st := &fileStore{
		log:           log,
		snapshotPath:  snapPath,
		journalFile:   jf,
		data:          data,
		snapshotEvery: every,
		syncEachWrite: cfg.FlushInterval <= 0,
	}
	if cfg.FlushInterval > 0 {
		st.flushStop = make(chan struct{})
		st.flushWG.Add(1)
		go st.flushLoop(cfg.FlushInterval)
	}
	return st, nil
}

func (s *fileStore) flushLoop(every time.Duration) {
	defer s.flushWG.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.flushStop:
			return
		case <-t.C:
			s.mu.Lock()
			if s.journalFile != nil {
				_ = s.journalFile.Sync()
			}
			s.mu.Unlock()
		}
	}
}

func (s *fileStore) Close() error {
	if s.flushStop != nil {
		close(s.flushStop)
		s.flushWG.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile == nil {
		return nil
	}
	_ = s.journalFile.Sync()
	err := s.journalFile.Close()
	s.journalFile = nil
	return err
}

func (s *fileStore) Put(ctx context.Context, key string, value []byte) error {
	_ = ctx
	if key == "" {
		return errors.New("empty key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile == nil {
		return errors.New("store closed")
	}

	cp := append([]byte(nil), value...)
	s.data[key] = cp
	return s.appendLocked(journalRecord{Op: "put", Key: key, Value: cp})
}

func (s *fileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile == nil {
		return errors.New("store closed")
	}
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.appendLocked(journalRecord{Op: "del", Key: key})
}

func (s *fileStore) Compact(ctx context.Context) error {
	_ = ctx
	start := time.Now()
	s.mu.Lock()
	err := s.compactLocked()
	s.mu.Unlock()
	if err == nil {
		s.log.Debug("store compacted", logx.Uint64("took_ms", timeutil.ToMillis(time.Since(start))))
	}
	return err
}

func (s *fileStore) appendLocked(rec journalRecord) error {
	enc := json.NewEncoder(s.journalFile)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	if s.syncEachWrite {
		if err := s.journalFile.Sync(); err != nil {
			return err
		}
	}
	s.writes++
	if s.writes%s.snapshotEvery == 0 {
		// Best-effort compact.
		if err := s.compactLocked(); err != nil {
			s.log.Debug("compact failed", logx.Any("err", err))
		}
	}
	return nil
}

func (s *fileStore) compactLocked() error {
	if s.journalFile == nil {
		return errors.New("store closed")
	}

	tmp := s.snapshotPath + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(s.data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.snapshotPath); err != nil {
		return err
	}
	// Truncate journal.
	if err := s.journalFile.Truncate(0); err != nil {
		return err
	}
	_, err = s.journalFile.Seek(0, 2)
	return err
}

func loadSnapshot(path string, out map[string][]byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var m map[string][]byte
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return err
	}
	for k, v := range m {
		out[k] = v
	}
	return nil
}

func replayJournal(path string, out map[string][]byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec journalRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			// A torn tail write is expected after a crash; stop replaying here.
			return nil
		}
		switch rec.Op {
		case "put":
			out[rec.Key] = rec.Value
		case "del":
			delete(out, rec.Key)
		}
	}
	return sc.Err()
}

func filePaths(cfg Config) (snapshot, journal string) {
	path := strings.TrimSpace(cfg.Path)
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(filepath.Base(path)))
	prefix := filepath.Join(dir, base)
	return prefix + ".snapshot.json", prefix + ".journal.jsonl"
}

func destroyFile(cfg Config) error {
	snap, journal := filePaths(cfg)
	var firstErr error
	for _, p := range []string{snap, journal} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
