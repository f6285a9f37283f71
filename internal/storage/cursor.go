package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor marks the last document of a page: its order values and id.
type Cursor struct {
	Values []any  `json:"v"`
	ID     string `json:"id"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c *Cursor) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidCursor)
	}
	return &c, nil
}

// CursorFor builds the cursor that resumes a query after doc.
func CursorFor(doc Document, orders []Order) (*Cursor, error) {
	fields, err := doc.Fields()
	if err != nil {
		return nil, err
	}
	vals, ok := OrderValues(fields, orders)
	if !ok {
		return nil, fmt.Errorf("document %s lacks an order field", doc.ID)
	}
	return &Cursor{Values: vals, ID: doc.ID}, nil
}
