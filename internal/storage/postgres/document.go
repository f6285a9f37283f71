package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"local_portal/internal/storage"
)

const uniqueViolation = "23505"

type documentRow struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r documentRow) document() storage.Document {
	return storage.Document{
		ID:        r.ID,
		Data:      json.RawMessage(r.Data),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// DocumentStore keeps every collection in the documents table as JSONB.
type DocumentStore struct {
	db     *sqlx.DB
	schema storage.Schema
	feed   *ChangeFeed
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*DocumentStore)

// WithChangeFeed enables Watch on top of LISTEN/NOTIFY.
func WithChangeFeed(feed *ChangeFeed) Option {
	return func(s *DocumentStore) { s.feed = feed }
}

func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) { s.now = now }
}

func NewDocumentStore(db *sqlx.DB, schema storage.Schema, logger *slog.Logger, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		db:     db,
		schema: schema,
		logger: logger.With("component", "document_store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	var row documentRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		"SELECT "+selectColumns+" FROM documents WHERE collection = $1 AND id = $2",
		collection, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return row.document(), nil
}

func (s *DocumentStore) Query(ctx context.Context, q storage.Query) ([]storage.Document, error) {
	query, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	var rows []documentRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}

	docs := make([]storage.Document, len(rows))
	for i, r := range rows {
		docs[i] = r.document()
	}
	return docs, nil
}

func (s *DocumentStore) Create(ctx context.Context, collection string, data any) (string, error) {
	body, err := storage.Body(data)
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	body[storage.FieldCreatedAt] = storage.FormatTime(now)
	body[storage.FieldUpdatedAt] = storage.FormatTime(now)
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data, unique_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT DO NOTHING
		RETURNING id`

	var id string
	err = sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &id, query,
		collection, uuid.NewString(), string(raw), s.uniqueKey(collection, body), now,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", storage.ErrAlreadyExists, collection)
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return id, nil
}

// Set creates or replaces a document under a caller-chosen id. A replaced
// document keeps its creation timestamp.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, data any) error {
	body, err := storage.Body(data)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	body[storage.FieldCreatedAt] = storage.FormatTime(now)
	body[storage.FieldUpdatedAt] = storage.FormatTime(now)
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data, unique_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = EXCLUDED.data || jsonb_build_object('createdAt', COALESCE(documents.data -> 'createdAt', EXCLUDED.data -> 'createdAt')),
			unique_key = EXCLUDED.unique_key,
			updated_at = EXCLUDED.updated_at`

	_, err = GetExecutor(ctx, s.db).ExecContext(ctx, query,
		collection, id, string(raw), s.uniqueKey(collection, body), now,
	)
	if err != nil {
		return s.writeError("set", collection, id, err)
	}
	return nil
}

// Update merges fields into the top level of the stored document.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := storage.Body(fields)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	patch[storage.FieldUpdatedAt] = storage.FormatTime(now)
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query := "UPDATE documents SET data = data || $3::jsonb, updated_at = $4"
	args := []any{collection, id, string(raw), now}
	if field, ok := s.schema.UniqueField(collection); ok {
		if _, touched := patch[strings.Split(field, ".")[0]]; touched {
			query += ", unique_key = $5"
			args = append(args, s.uniqueKey(collection, patch))
		}
	}
	query += " WHERE collection = $1 AND id = $2"

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return s.writeError("update", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM documents WHERE collection = $1 AND id = $2",
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Increment adds delta to a numeric field in a single statement. A missing
// or non-numeric field counts as zero. updated_at is left untouched.
func (s *DocumentStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	query := `
		UPDATE documents
		SET data = jsonb_set(
			data, $3,
			to_jsonb(COALESCE(CASE WHEN jsonb_typeof(data #> $3) = 'number' THEN (data #>> $3)::numeric END, 0) + $4),
			true)
		WHERE collection = $1 AND id = $2`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		collection, id, pq.Array(strings.Split(field, ".")), delta,
	)
	if err != nil {
		return fmt.Errorf("increment %s/%s.%s: %w", collection, id, field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s/%s.%s: %w", collection, id, field, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) uniqueKey(collection string, body map[string]any) *string {
	field, ok := s.schema.UniqueField(collection)
	if !ok {
		return nil
	}
	v, ok := storage.Lookup(body, field)
	if !ok {
		return nil
	}
	key := fmt.Sprint(v)
	return &key
}

func (s *DocumentStore) writeError(op, collection, id string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s/%s", storage.ErrAlreadyExists, collection, id)
	}
	return fmt.Errorf("%s %s/%s: %w", op, collection, id, err)
}
