package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotInteger is returned when a value cannot be represented as an integer.
var ErrNotInteger = errors.New("value is not a number")

// ToInt64 converts a cell value to int64 using explicit type switching.
// Integer types are used as-is, floats are truncated toward zero and
// numeric text is parsed the same way. Anything else is rejected.
func ToInt64(val any) (int64, error) {
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case float64:
		return truncate(v, val)
	case float32:
		return truncate(float64(v), val)
	case string:
		return parseNumber(v)
	case []byte:
		return parseNumber(string(v))
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrNotInteger, v, v)
	}
}

func parseNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return truncate(f, s)
}

func truncate(f float64, original any) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrNotInteger, original)
	}
	return int64(f), nil
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
