package duration

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in     string
		millis uint64
	}{
		{"", 0},
		{"  ", 0},
		{"0s", 0},
		{"500ms", 500},
		{"1s", 1000},
		{"1.5s", 1500},
		{"1h2m", 3_720_000},
		{"1h30m", 5_400_000},
		{"1d", 86_400_000},
		{"1d30m", 88_200_000},
		{"1d2h3m4s5ms", 93_784_005},
		{" 10s ", 10_000},
		{"0.5ms", 0}, // sub-ms floored
		{"12h360m", 64_800_000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got.Millis() != tt.millis {
				t.Fatalf("Parse(%q) = %dms, want %dms", tt.in, got.Millis(), tt.millis)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want error
	}{
		{"1m2h", ErrUnitOrder},
		{"1h2h", ErrUnitOrder},
		{"5ms1ms", ErrUnitOrder},
		{"-5s", ErrNegative},
		{"-0.5ms", ErrNegative},
		{"10s!", ErrInvalidEncoding},
		{"tail", ErrInvalidEncoding},
		{"s", ErrInvalidEncoding},
		{"1..5s", ErrInvalidEncoding},
		{"1é s", ErrInvalidEncoding},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.in)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

func TestParseMillisecondPrecedence(t *testing.T) {
	t.Parallel()
	d, err := Parse("500ms")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if d.Std() != 500*time.Millisecond {
		t.Fatalf("got %v, want 500ms", d.Std())
	}
}

func TestStringCanonical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    Duration
		want string
	}{
		{0, "0s"},
		{FromMillis(500), "500ms"},
		{FromSeconds(1), "1s"},
		{FromMinutes(90), "1h30m"},
		{FromHours(25), "1d1h"},
		{FromDays(1) + FromMinutes(30), "1d30m"},
		{FromMillis(93_784_005), "1d2h3m4s5ms"},
		{Duration(500 * time.Microsecond), "0s"}, // below observable granularity
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.d.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	// Every whole-millisecond duration must satisfy Parse(String(d)) == d.
	millis := []uint64{
		0, 1, 999, 1000, 1001, 59_999, 60_000, 3_600_000,
		86_400_000, 88_200_000, 93_784_005, 123_456_789_012,
	}
	for _, ms := range millis {
		d := FromMillis(ms)
		got, err := Parse(d.String())
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", d.String(), err)
		}
		if got != d {
			t.Fatalf("round trip of %dms: got %v, want %v", ms, got.Std(), d.Std())
		}
	}
}

func TestExampleFromDocs(t *testing.T) {
	t.Parallel()
	d, err := Parse("1d2h3m4s5ms")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if d.Millis() != 93_784_005 {
		t.Fatalf("Millis() = %d, want 93784005", d.Millis())
	}
	if s := d.String(); s != "1d2h3m4s5ms" {
		t.Fatalf("String() = %q, want identical input back", s)
	}
}

func TestAccessors(t *testing.T) {
	t.Parallel()
	d := FromMillis(2500)
	if d.Secs() != 2 {
		t.Fatalf("Secs() = %d, want 2", d.Secs())
	}
	if d.Millis() != 2500 {
		t.Fatalf("Millis() = %d, want 2500", d.Millis())
	}
	if d.IsZero() {
		t.Fatal("IsZero() = true for 2.5s")
	}
	if !FromMillis(0).IsZero() {
		t.Fatal("IsZero() = false for zero duration")
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid input")
		}
	}()
	MustParse("1m2h")
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	type cfg struct {
		Timeout Duration `json:"timeout"`
	}

	var c cfg
	if err := json.Unmarshal([]byte(`{"timeout":"1h30m"}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Timeout != FromMinutes(90) {
		t.Fatalf("Timeout = %v, want 90m", c.Timeout.Std())
	}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"timeout":"1h30m"}` {
		t.Fatalf("marshal = %s, want string form", b)
	}

	if err := json.Unmarshal([]byte(`{"timeout":"1m2h"}`), &c); err == nil {
		t.Fatal("expected error for out-of-order units")
	}
}
