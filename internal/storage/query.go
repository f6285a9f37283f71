package storage

import (
	"fmt"
	"reflect"
	"time"
)

type Op string

const (
	OpEqual          Op = "=="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
)

// Kind is the value type a field is compared and ordered as.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
	KindBool
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

type Order struct {
	Field     string
	Direction Direction
	Kind      Kind
}

// Query selects documents from one collection. Results are ordered by Orders
// and then by document id ascending, so pagination is deterministic.
// Documents lacking any order field are not returned.
type Query struct {
	Collection string
	Filters    []Filter
	Orders     []Order
	Limit      int
	StartAfter *Cursor
}

func NewQuery(collection string) Query {
	return Query{Collection: collection}
}

func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(field string, dir Direction, kind Kind) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Field: field, Direction: dir, Kind: kind})
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

func (q Query) After(c *Cursor) Query {
	q.StartAfter = c
	return q
}

func (q Query) Validate() error {
	if q.Collection == "" {
		return fmt.Errorf("query: empty collection")
	}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
		default:
			return fmt.Errorf("query: unsupported operator %q", f.Op)
		}
		if _, _, err := Normalize(f.Value); err != nil {
			return fmt.Errorf("query: filter %s: %w", f.Field, err)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("query: negative limit")
	}
	if c := q.StartAfter; c != nil {
		if len(c.Values) != len(q.Orders) {
			return fmt.Errorf("%w: expected %d order values, got %d", ErrInvalidCursor, len(q.Orders), len(c.Values))
		}
		for i, o := range q.Orders {
			if _, err := Coerce(c.Values[i], o.Kind); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidCursor, o.Field, err)
			}
		}
	}
	return nil
}

// Normalize reduces a filter value to string, float64, bool or time.Time and
// reports the kind it compares as. Named string types are accepted.
func Normalize(v any) (any, Kind, error) {
	switch t := v.(type) {
	case time.Time:
		return t, KindTime, nil
	case *time.Time:
		if t == nil {
			return nil, 0, fmt.Errorf("nil time")
		}
		return *t, KindTime, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), KindString, nil
	case reflect.Bool:
		return rv.Bool(), KindBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), KindNumber, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), KindNumber, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), KindNumber, nil
	}
	return nil, 0, fmt.Errorf("unsupported value type %T", v)
}
