// Package memory is an in-process document store. It keeps the same contract
// as the postgres backend and is used by tests and local runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"local_portal/internal/storage"
)

type record struct {
	doc    storage.Document
	fields map[string]any
}

type Store struct {
	schema storage.Schema
	now    func() time.Time

	mu          sync.RWMutex
	collections map[string]map[string]*record
	watchers    map[*watcher]struct{}
}

type Option func(*Store)

// WithClock replaces time.Now for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(schema storage.Schema, opts ...Option) *Store {
	s := &Store{
		schema:      schema,
		now:         time.Now,
		collections: make(map[string]map[string]*record),
		watchers:    make(map[*watcher]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return storage.Document{}, storage.ErrNotFound
	}
	return rec.doc, nil
}

func (s *Store) Query(ctx context.Context, q storage.Query) ([]storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run(q), nil
}

func (s *Store) Create(ctx context.Context, collection string, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := storage.Body(data)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if err := s.checkUnique(collection, id, body); err != nil {
		return "", err
	}
	now := s.now()
	body[storage.FieldCreatedAt] = storage.FormatTime(now)
	body[storage.FieldUpdatedAt] = storage.FormatTime(now)
	if err := s.put(collection, id, body); err != nil {
		return "", err
	}
	s.notify(collection)
	return id, nil
}

// Set creates or replaces the document with the given id. The creation
// timestamp of a replaced document is kept.
func (s *Store) Set(ctx context.Context, collection, id string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := storage.Body(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(collection, id, body); err != nil {
		return err
	}
	now := storage.FormatTime(s.now())
	body[storage.FieldCreatedAt] = now
	if old, ok := s.collections[collection][id]; ok {
		body[storage.FieldCreatedAt] = old.fields[storage.FieldCreatedAt]
	}
	body[storage.FieldUpdatedAt] = now
	if err := s.put(collection, id, body); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

// Update merges fields into the top level of the stored document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	patch, err := storage.Body(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return storage.ErrNotFound
	}
	merged := clone(rec.fields)
	for k, v := range patch {
		merged[k] = v
	}
	if err := s.checkUnique(collection, id, merged); err != nil {
		return err
	}
	merged[storage.FieldUpdatedAt] = storage.FormatTime(s.now())
	if err := s.put(collection, id, merged); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return nil
	}
	delete(s.collections[collection], id)
	s.notify(collection)
	return nil
}

// Increment adds delta to a numeric field. A missing or non-numeric field
// counts as zero. updatedAt is left untouched.
func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return storage.ErrNotFound
	}
	fields := clone(rec.fields)
	var cur float64
	if v, ok := storage.Lookup(fields, field); ok {
		cur, _ = v.(float64)
	}
	setPath(fields, field, cur+float64(delta))
	if err := s.put(collection, id, fields); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

// WithTransaction runs fn directly. Each write is applied atomically on its
// own; there is no rollback.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) run(q storage.Query) []storage.Document {
	type hit struct {
		rec  *record
		vals []any
	}

	var hits []hit
	for _, rec := range s.collections[q.Collection] {
		if !matchAll(rec.fields, q.Filters) {
			continue
		}
		vals, ok := storage.OrderValues(rec.fields, q.Orders)
		if !ok {
			continue
		}
		if c := q.StartAfter; c != nil && storage.CompareOrdered(vals, rec.doc.ID, c.Values, c.ID, q.Orders) <= 0 {
			continue
		}
		hits = append(hits, hit{rec: rec, vals: vals})
	}

	sort.Slice(hits, func(i, j int) bool {
		return storage.CompareOrdered(hits[i].vals, hits[i].rec.doc.ID, hits[j].vals, hits[j].rec.doc.ID, q.Orders) < 0
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	docs := make([]storage.Document, len(hits))
	for i, h := range hits {
		docs[i] = h.rec.doc
	}
	return docs
}

func (s *Store) checkUnique(collection, id string, body map[string]any) error {
	field, ok := s.schema.UniqueField(collection)
	if !ok {
		return nil
	}
	want, ok := storage.Lookup(body, field)
	if !ok {
		return nil
	}
	same := storage.Filter{Field: field, Op: storage.OpEqual, Value: want}
	for otherID, rec := range s.collections[collection] {
		if otherID == id {
			continue
		}
		if storage.Match(rec.fields, same) {
			return fmt.Errorf("%w: %s %s=%v", storage.ErrAlreadyExists, collection, field, want)
		}
	}
	return nil
}

func (s *Store) put(collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	doc := storage.Document{ID: id, Data: data}
	doc.CreatedAt, _ = time.Parse(time.RFC3339Nano, fmt.Sprint(fields[storage.FieldCreatedAt]))
	doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fmt.Sprint(fields[storage.FieldUpdatedAt]))

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]*record)
		s.collections[collection] = coll
	}
	coll[id] = &record{doc: doc, fields: fields}
	return nil
}

func matchAll(fields map[string]any, filters []storage.Filter) bool {
	for _, f := range filters {
		if !storage.Match(fields, f) {
			return false
		}
	}
	return true
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// setPath writes v at a dotted path, copying intermediate objects so stored
// snapshots are never mutated.
func setPath(m map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if ok {
			next = clone(next)
		} else {
			next = make(map[string]any)
		}
		cur[p] = next
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}
