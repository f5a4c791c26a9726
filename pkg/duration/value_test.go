package duration

import (
	"strings"
	"testing"
	"time"
)

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()
	d := FromMillis(93_784_005)
	v := DurationValue(d)
	if v.Kind() != KindDuration {
		t.Fatalf("Kind() = %v, want duration", v.Kind())
	}
	if v.String() != "93784005ms" {
		t.Fatalf("String() = %q", v.String())
	}
	if got := v.Duration(); got != d {
		t.Fatalf("Duration() = %v, want %v", got.Std(), d.Std())
	}
}

func TestValueFloorsSubMillisecond(t *testing.T) {
	t.Parallel()
	// 1ms + 500µs: the interchange form keeps whole milliseconds only,
	// so the round trip comes back with a zero sub-millisecond remainder.
	d := Duration(time.Millisecond + 500*time.Microsecond)
	got := DurationValue(d).Duration()
	if got.Millis() != 1 {
		t.Fatalf("Millis() = %d, want 1", got.Millis())
	}
	if got.Std()%time.Millisecond != 0 {
		t.Fatalf("sub-millisecond remainder survived: %v", got.Std())
	}
}

func TestValueWrongVariantPanics(t *testing.T) {
	t.Parallel()
	v := Value{kind: Kind(42)}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for non-duration variant")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "expect duration") {
			t.Fatalf("unexpected panic payload: %v", r)
		}
	}()
	_ = v.Duration()
}
