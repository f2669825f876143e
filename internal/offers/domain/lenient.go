package domain

import (
	"math"
	"strconv"
	"strings"
)

// Lenient is a float64 that never fails to decode. The offer forms favor
// availability over strictness: missing, malformed, or non-finite numeric
// input is coerced to zero instead of raising an error. Making the policy a
// named type keeps the coercion visible and testable.
type Lenient float64

// Float returns the sanitized value. NaN and infinities collapse to 0.
func (l Lenient) Float() float64 {
	v := float64(l)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// UnmarshalJSON accepts a JSON number, a quoted number, null, or anything
// else; everything that is not a finite number becomes 0. It never errors.
func (l *Lenient) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*l = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*l = 0
		return nil
	}
	*l = Lenient(v)
	return nil
}

// MarshalJSON writes the sanitized value so non-finite floats never reach
// the wire.
func (l Lenient) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(l.Float(), 'f', -1, 64)), nil
}
