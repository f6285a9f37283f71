package domain

import (
	"errors"
	"time"
)

// Page is one slice of a paginated listing.
//
// HasMore is true when the store returned a full page. A page that happens to
// consume exactly the remaining documents also reports HasMore; callers see
// an empty next page in that case.
type Page[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
}

type ChangeAction string

const (
	ChangeCreate ChangeAction = "create"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent describes a committed write to a collection.
type ChangeEvent struct {
	Collection string       `json:"collection"`
	DocumentID string       `json:"documentId"`
	Action     ChangeAction `json:"action"`
	Timestamp  time.Time    `json:"timestamp"`
}

// SweepStats holds statistics about one expiry sweep.
type SweepStats struct {
	ClassifiedsExpired int
	AdsExpired         int
	Duration           time.Duration
}

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already subscribed")
	ErrSlugTaken      = errors.New("slug already taken")
	ErrInvalidCursor  = errors.New("invalid cursor")
	ErrInvalidEmail   = errors.New("invalid email address")
)
