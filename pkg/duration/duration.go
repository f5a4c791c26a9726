// Package duration implements the human-readable duration format used for
// minikv config values: concatenated <number><unit> segments with units
// d, h, m, s, ms in strictly descending order (e.g. "1h30m", "500ms").
//
// Values are non-negative. The observable granularity is one millisecond;
// anything below that is floored away when a string is parsed.
package duration

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"minikv/pkg/timeutil"
)

// Unit weights in milliseconds.
const (
	weightMilli  uint64 = 1
	weightSecond        = 1000 * weightMilli
	weightMinute        = 60 * weightSecond
	weightHour          = 60 * weightMinute
	weightDay           = 24 * weightHour
)

var (
	// ErrInvalidEncoding covers non-ASCII input, a numeric segment that
	// doesn't parse, and trailing text after the last unit.
	ErrInvalidEncoding = errors.New("invalid duration, only d, h, m, s, ms are supported")

	// ErrUnitOrder is returned when units repeat or appear out of order
	// (e.g. "1m2h", "1h2h").
	ErrUnitOrder = errors.New("d, h, m, s, ms should occur in given order")

	// ErrNegative is returned when the accumulated total is negative.
	// A sign can only ride on a numeric literal, so "-5s" lands here.
	ErrNegative = errors.New("duration should be positive")
)

// Duration is an immutable non-negative span of time. It keeps nanosecond
// resolution internally but every constructor except direct conversion from
// time.Duration produces whole milliseconds.
//
// The zero value is the zero duration and formats as "0s".
type Duration time.Duration

// Parse decodes a duration string.
//
// The grammar is zero or more <number><unit> segments with no separators,
// where <number> is a non-negative decimal (fractions allowed) and <unit>
// is one of d, h, m, s, ms. Units must appear in strictly descending
// magnitude order. Surrounding whitespace is trimmed; the empty string is
// the zero duration. Cross-unit magnitudes are not validated: "12h360m"
// is accepted and summed arithmetically.
func Parse(raw string) (Duration, error) {
	s := strings.TrimSpace(raw)
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return 0, fmt.Errorf("%w: non-ascii input %q", ErrInvalidEncoding, raw)
		}
	}

	left := s
	lastUnit := weightDay + 1
	var total float64

	for {
		idx := strings.IndexAny(left, "dhms")
		if idx < 0 {
			break
		}

		// "ms" must win over "m" at the same position.
		var unit uint64
		tok := 1
		if left[idx] == 'm' && idx+1 < len(left) && left[idx+1] == 's' {
			unit, tok = weightMilli, 2
		} else {
			switch left[idx] {
			case 'd':
				unit = weightDay
			case 'h':
				unit = weightHour
			case 'm':
				unit = weightMinute
			case 's':
				unit = weightSecond
			}
		}
		if unit >= lastUnit {
			return 0, fmt.Errorf("%w: %q", ErrUnitOrder, raw)
		}

		n, err := strconv.ParseFloat(strings.TrimSpace(left[:idx]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad number in %q", ErrInvalidEncoding, raw)
		}
		total += n * float64(unit)
		lastUnit = unit
		left = left[idx+tok:]
	}

	if left != "" {
		return 0, fmt.Errorf("%w: trailing %q", ErrInvalidEncoding, left)
	}
	if math.Signbit(total) {
		return 0, fmt.Errorf("%w: got %q", ErrNegative, raw)
	}

	// Floor to whole milliseconds, then split into secs + sub-second nanos.
	ms := uint64(total)
	secs := ms / weightSecond
	rem := ms % weightSecond
	return Duration(time.Duration(secs)*time.Second + time.Duration(rem)*time.Millisecond), nil
}

// MustParse is Parse for static strings; it panics on error.
func MustParse(raw string) Duration {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// FromMillis returns a duration of exactly ms whole milliseconds.
func FromMillis(ms uint64) Duration {
	secs := ms / weightSecond
	rem := ms % weightSecond
	return Duration(time.Duration(secs)*time.Second + time.Duration(rem)*time.Millisecond)
}

// FromSeconds returns a duration of secs whole seconds.
func FromSeconds(secs uint64) Duration {
	return Duration(time.Duration(secs) * time.Second)
}

// FromMinutes returns a duration of minutes whole minutes.
func FromMinutes(minutes uint64) Duration {
	return FromSeconds(minutes * 60)
}

// FromHours returns a duration of hours whole hours.
func FromHours(hours uint64) Duration {
	return FromMinutes(hours * 60)
}

// FromDays returns a duration of days whole days.
func FromDays(days uint64) Duration {
	return FromHours(days * 24)
}

// Std returns the span as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Secs returns the whole-second count.
func (d Duration) Secs() uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(time.Duration(d) / time.Second)
}

// Millis returns the whole-millisecond count.
func (d Duration) Millis() uint64 { return timeutil.ToMillis(time.Duration(d)) }

// IsZero reports whether the duration is exactly zero.
func (d Duration) IsZero() bool { return d == 0 }

// String renders the canonical form: largest unit first, zero-valued units
// omitted, "0s" for the zero duration. For any whole-millisecond duration
// the output round-trips through Parse.
func (d Duration) String() string {
	ms := timeutil.ToMillis(time.Duration(d))
	if ms == 0 {
		return "0s"
	}

	var b strings.Builder
	for _, u := range []struct {
		weight uint64
		token  string
	}{
		{weightDay, "d"},
		{weightHour, "h"},
		{weightMinute, "m"},
		{weightSecond, "s"},
	} {
		if ms >= u.weight {
			b.WriteString(strconv.FormatUint(ms/u.weight, 10))
			b.WriteString(u.token)
			ms %= u.weight
		}
	}
	if ms > 0 {
		b.WriteString(strconv.FormatUint(ms, 10))
		b.WriteString("ms")
	}
	return b.String()
}

// MarshalText encodes the canonical string form.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes via Parse.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON encodes the canonical string form, never a raw number.
func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON decodes a JSON string via Parse.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}
