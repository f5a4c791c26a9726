package logx

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in, zerolog.InfoLevel); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLimitedWriterDropsOverBudget(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	lw := newLimitedWriter(&buf, 2)

	line := []byte("x\n")
	for i := 0; i < 10; i++ {
		n, err := lw.Write(line)
		if err != nil || n != len(line) {
			t.Fatalf("Write = (%d, %v)", n, err)
		}
	}
	// Burst allows 2; the rest must be dropped, not buffered.
	if got := buf.Len(); got != 2*len(line) {
		t.Fatalf("wrote %d bytes, want %d", got, 2*len(line))
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	t.Parallel()
	l := Nop()
	l.Info("ignored", String("k", "v"))
	if l.IsZero() {
		t.Fatal("Nop() should not be the zero logger")
	}

	var zero Logger
	zero.Warn("also ignored")
	if !zero.IsZero() {
		t.Fatal("zero Logger should report IsZero")
	}
}
