package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
	ErrInvalidCursor = errors.New("invalid cursor")
)

// Server-assigned timestamp fields written into every document.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DataTo decodes the document body into v.
func (d Document) DataTo(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// Fields decodes the document body into a generic map.
func (d Document) Fields() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(d.Data, &m); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return m, nil
}

// Lookup resolves a dotted field path ("category.slug") in decoded data.
func Lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Schema declares per-collection constraints the store enforces.
type Schema struct {
	// Unique maps a collection to the field whose value must be unique
	// within it.
	Unique map[string]string
}

func (s Schema) UniqueField(collection string) (string, bool) {
	f, ok := s.Unique[collection]
	return f, ok
}

// Encode marshals v into a document body.
func Encode(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// Body converts v into the generic form stored by the backends. The id key
// is dropped since ids live outside the body.
func Body(v any) (map[string]any, error) {
	b, err := Encode(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("encode document: %T is not an object", v)
	}
	delete(m, "id")
	return m, nil
}

// FormatTime renders a timestamp the way documents store it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
