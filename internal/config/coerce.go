package config

import (
	"math"
	"strconv"
	"strings"
)

// LookupFunc reports the value of an environment variable and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Source records where a coerced value came from.
type Source int

const (
	// SourceDefault means the variable was absent and the default was used.
	SourceDefault Source = iota
	// SourceEnv means the variable was present and parsed.
	SourceEnv
	// SourceInvalid means the variable was present but malformed; the default was used.
	SourceInvalid
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "env"
	case SourceInvalid:
		return "invalid"
	default:
		return "default"
	}
}

// Value is a coerced setting together with its source.
type Value[T any] struct {
	Value  T
	Source Source
}

var truthy = map[string]struct{}{
	"1": {}, "true": {}, "yes": {}, "y": {}, "on": {},
}

// Bool coerces raw to a boolean. Any present value outside the truthy set is false,
// so booleans are never reported as SourceInvalid.
func Bool(raw string, ok bool, def bool) Value[bool] {
	if !ok {
		return Value[bool]{Value: def, Source: SourceDefault}
	}
	_, yes := truthy[strings.ToLower(strings.TrimSpace(raw))]
	return Value[bool]{Value: yes, Source: SourceEnv}
}

// Int coerces raw to an int, falling back to def when absent or unparsable.
func Int(raw string, ok bool, def int) Value[int] {
	if !ok {
		return Value[int]{Value: def, Source: SourceDefault}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Value[int]{Value: def, Source: SourceInvalid}
	}
	return Value[int]{Value: n, Source: SourceEnv}
}

// Float coerces raw to a float64, falling back to def when absent, unparsable
// or not finite (inf and nan are rejected).
func Float(raw string, ok bool, def float64) Value[float64] {
	if !ok {
		return Value[float64]{Value: def, Source: SourceDefault}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value[float64]{Value: def, Source: SourceInvalid}
	}
	return Value[float64]{Value: f, Source: SourceEnv}
}
