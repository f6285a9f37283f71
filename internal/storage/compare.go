package storage

import (
	"fmt"
	"strings"
	"time"
)

// Match reports whether decoded document fields satisfy the filter.
// A missing field or a value of another type never matches.
func Match(fields map[string]any, f Filter) bool {
	stored, ok := Lookup(fields, f.Field)
	if !ok {
		return false
	}
	want, kind, err := Normalize(f.Value)
	if err != nil {
		return false
	}
	c, err := compareAs(kind, stored, want)
	if err != nil {
		return false
	}
	switch f.Op {
	case OpEqual:
		return c == 0
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterOrEqual:
		return c >= 0
	}
	return false
}

// OrderValues extracts the values of the order fields. The second result is
// false when any of them is missing.
func OrderValues(fields map[string]any, orders []Order) ([]any, bool) {
	vals := make([]any, len(orders))
	for i, o := range orders {
		v, ok := Lookup(fields, o.Field)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// CompareOrdered compares two positions in query order: order values first,
// each in its direction, then document id ascending.
func CompareOrdered(aVals []any, aID string, bVals []any, bID string, orders []Order) int {
	for i, o := range orders {
		c, err := compareAs(o.Kind, aVals[i], bVals[i])
		if err != nil {
			c = strings.Compare(fmt.Sprint(aVals[i]), fmt.Sprint(bVals[i]))
		}
		if o.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return strings.Compare(aID, bID)
}

// Coerce converts a decoded JSON value to the Go type kind compares as:
// string, float64, bool or time.Time.
func Coerce(v any, kind Kind) (any, error) {
	switch kind {
	case KindTime:
		return asTime(v)
	case KindNumber:
		return asFloat(v)
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("not a bool: %T", v)
		}
		return b, nil
	}
	str, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("not a string: %T", v)
	}
	return str, nil
}

func compareAs(kind Kind, a, b any) (int, error) {
	switch kind {
	case KindTime:
		ta, err := asTime(a)
		if err != nil {
			return 0, err
		}
		tb, err := asTime(b)
		if err != nil {
			return 0, err
		}
		return ta.Compare(tb), nil
	case KindNumber:
		fa, err := asFloat(a)
		if err != nil {
			return 0, err
		}
		fb, err := asFloat(b)
		if err != nil {
			return 0, err
		}
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		}
		return 0, nil
	case KindBool:
		ba, ok1 := a.(bool)
		bb, ok2 := b.(bool)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("not a bool")
		}
		switch {
		case ba == bb:
			return 0, nil
		case !ba:
			return -1, nil
		}
		return 1, nil
	default:
		sa, ok1 := a.(string)
		sb, ok2 := b.(string)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("not a string")
		}
		return strings.Compare(sa, sb), nil
	}
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	}
	return time.Time{}, fmt.Errorf("not a timestamp: %T", v)
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("not a number: %T", v)
}
