package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"local_portal/internal/storage"
)

const selectColumns = "id, data, created_at, updated_at"

// queryBuilder renders a storage.Query as one SELECT over the documents
// table. Field values are extracted with #>> and typed by kind; values of
// another JSON type become NULL and so never match.
type queryBuilder struct {
	args []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *queryBuilder) field(path string, kind storage.Kind) string {
	p := b.arg(pq.Array(strings.Split(path, ".")))
	switch kind {
	case storage.KindNumber:
		return fmt.Sprintf("(CASE WHEN jsonb_typeof(data #> %[1]s) = 'number' THEN (data #>> %[1]s)::numeric END)", p)
	case storage.KindBool:
		return fmt.Sprintf("(CASE WHEN jsonb_typeof(data #> %[1]s) = 'boolean' THEN (data #>> %[1]s)::boolean END)", p)
	case storage.KindTime:
		return fmt.Sprintf("(CASE WHEN jsonb_typeof(data #> %[1]s) = 'string' THEN (data #>> %[1]s)::timestamptz END)", p)
	}
	return fmt.Sprintf("(CASE WHEN jsonb_typeof(data #> %[1]s) = 'string' THEN data #>> %[1]s END) COLLATE \"C\"", p)
}

func (b *queryBuilder) value(v any, kind storage.Kind) string {
	p := b.arg(v)
	switch kind {
	case storage.KindNumber:
		return p + "::numeric"
	case storage.KindBool:
		return p + "::boolean"
	case storage.KindTime:
		return p + "::timestamptz"
	}
	return p + "::text COLLATE \"C\""
}

func buildSelect(q storage.Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	b := &queryBuilder{}
	conds := []string{"collection = " + b.arg(q.Collection)}

	for _, f := range q.Filters {
		v, kind, err := storage.Normalize(f.Value)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, fmt.Sprintf("%s %s %s", b.field(f.Field, kind), sqlOp(f.Op), b.value(v, kind)))
	}

	orderExprs := make([]string, len(q.Orders))
	for i, o := range q.Orders {
		orderExprs[i] = b.field(o.Field, o.Kind)
		conds = append(conds, orderExprs[i]+" IS NOT NULL")
	}

	if c := q.StartAfter; c != nil {
		cond, err := b.startAfter(c, q.Orders, orderExprs)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, cond)
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + selectColumns + " FROM documents WHERE ")
	sb.WriteString(strings.Join(conds, " AND "))
	sb.WriteString(" ORDER BY ")
	for i, o := range q.Orders {
		sb.WriteString(orderExprs[i])
		if o.Direction == storage.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
		sb.WriteString(", ")
	}
	sb.WriteString("id COLLATE \"C\" ASC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + b.arg(q.Limit))
	}
	return sb.String(), b.args, nil
}

// startAfter expands a cursor into
// (o1 > v1) OR (o1 = v1 AND o2 > v2) OR ... OR (o1 = v1 AND ... AND id > cid)
// with > flipped to < for descending orders.
func (b *queryBuilder) startAfter(c *storage.Cursor, orders []storage.Order, exprs []string) (string, error) {
	vals := make([]string, len(orders))
	for i, o := range orders {
		v, err := storage.Coerce(c.Values[i], o.Kind)
		if err != nil {
			return "", fmt.Errorf("%w: %v", storage.ErrInvalidCursor, err)
		}
		vals[i] = b.value(v, o.Kind)
	}
	id := b.arg(c.ID) + " COLLATE \"C\""

	var branches []string
	for i := 0; i <= len(orders); i++ {
		var parts []string
		for j := 0; j < i; j++ {
			parts = append(parts, exprs[j]+" = "+vals[j])
		}
		if i < len(orders) {
			op := ">"
			if orders[i].Direction == storage.Desc {
				op = "<"
			}
			parts = append(parts, exprs[i]+" "+op+" "+vals[i])
		} else {
			parts = append(parts, "id COLLATE \"C\" > "+id)
		}
		branches = append(branches, "("+strings.Join(parts, " AND ")+")")
	}
	return "(" + strings.Join(branches, " OR ") + ")", nil
}

func sqlOp(op storage.Op) string {
	if op == storage.OpEqual {
		return "="
	}
	return string(op)
}
