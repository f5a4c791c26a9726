package duration

import "fmt"

// Kind tags a Value variant.
type Kind int

const (
	// KindDuration is a duration expressed as whole milliseconds.
	KindDuration Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindDuration:
		return "duration"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged config value. It exists so durations can travel through
// generic config plumbing next to other value kinds; the duration variant
// is currently the only one.
type Value struct {
	kind   Kind
	millis uint64
}

// DurationValue converts d into its interchange form, flooring away any
// sub-millisecond precision. The reverse conversion is exact, so the pair
// is lossy in one direction only.
func DurationValue(d Duration) Value {
	return Value{kind: KindDuration, millis: d.Millis()}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Duration converts the value back into a Duration with exactly the stored
// number of whole milliseconds.
//
// It panics when v is not the duration variant. That is a contract
// violation by the caller, not malformed input, and is not meant to be
// recovered.
func (v Value) Duration() Duration {
	if v.kind != KindDuration {
		panic(fmt.Sprintf("config value: expect duration, got %s", v.kind))
	}
	return FromMillis(v.millis)
}

func (v Value) String() string {
	return fmt.Sprintf("%dms", v.millis)
}
