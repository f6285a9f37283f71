package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"local_portal/internal/storage"
)

type item struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Status   string  `json:"status"`
	Priority int     `json:"priority"`
	Price    float64 `json:"price,omitempty"`
	Views    int64   `json:"views"`
}

type MemoryStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	clock time.Time
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewStore(
		storage.Schema{Unique: map[string]string{"items": "slug"}},
		WithClock(func() time.Time {
			s.clock = s.clock.Add(time.Second)
			return s.clock
		}),
	)
}

func TestMemoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

func (s *MemoryStoreTestSuite) create(it item) string {
	id, err := s.store.Create(s.ctx, "items", it)
	s.Require().NoError(err)
	return id
}

func (s *MemoryStoreTestSuite) decode(doc storage.Document) item {
	var it item
	s.Require().NoError(doc.DataTo(&it))
	return it
}

func (s *MemoryStoreTestSuite) TestCreateAndGet() {
	id := s.create(item{Name: "a", Slug: "a", Status: "active"})

	doc, err := s.store.Get(s.ctx, "items", id)
	s.Require().NoError(err)
	s.Equal(id, doc.ID)
	s.Equal("a", s.decode(doc).Name)
	s.False(doc.CreatedAt.IsZero())
	s.Equal(doc.CreatedAt, doc.UpdatedAt)

	_, err = s.store.Get(s.ctx, "items", "missing")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *MemoryStoreTestSuite) TestCreate_UniqueFieldCollides() {
	s.create(item{Slug: "same"})

	_, err := s.store.Create(s.ctx, "items", item{Slug: "same"})
	s.ErrorIs(err, storage.ErrAlreadyExists)
}

func (s *MemoryStoreTestSuite) TestUpdate_MergesAndRefreshesUpdatedAt() {
	id := s.create(item{Name: "a", Slug: "a", Status: "active"})
	before, _ := s.store.Get(s.ctx, "items", id)

	s.Require().NoError(s.store.Update(s.ctx, "items", id, map[string]any{"status": "sold"}))

	after, err := s.store.Get(s.ctx, "items", id)
	s.Require().NoError(err)
	got := s.decode(after)
	s.Equal("sold", got.Status)
	s.Equal("a", got.Name)
	s.Equal(before.CreatedAt, after.CreatedAt)
	s.True(after.UpdatedAt.After(before.UpdatedAt))
}

func (s *MemoryStoreTestSuite) TestUpdate_Errors() {
	err := s.store.Update(s.ctx, "items", "missing", map[string]any{"status": "x"})
	s.ErrorIs(err, storage.ErrNotFound)

	s.create(item{Slug: "taken"})
	id := s.create(item{Slug: "free"})
	err = s.store.Update(s.ctx, "items", id, map[string]any{"slug": "taken"})
	s.ErrorIs(err, storage.ErrAlreadyExists)
}

func (s *MemoryStoreTestSuite) TestSet_KeepsCreatedAt() {
	s.Require().NoError(s.store.Set(s.ctx, "items", "u1", item{Name: "first"}))
	first, _ := s.store.Get(s.ctx, "items", "u1")

	s.Require().NoError(s.store.Set(s.ctx, "items", "u1", item{Name: "second"}))
	second, err := s.store.Get(s.ctx, "items", "u1")
	s.Require().NoError(err)
	s.Equal("second", s.decode(second).Name)
	s.Equal(first.CreatedAt, second.CreatedAt)
}

func (s *MemoryStoreTestSuite) TestDelete_Idempotent() {
	id := s.create(item{Slug: "a"})
	s.NoError(s.store.Delete(s.ctx, "items", id))
	s.NoError(s.store.Delete(s.ctx, "items", id))

	_, err := s.store.Get(s.ctx, "items", id)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *MemoryStoreTestSuite) TestIncrement_ConcurrentCallsAreNotLost() {
	id := s.create(item{Slug: "a"})
	before, _ := s.store.Get(s.ctx, "items", id)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.store.Increment(s.ctx, "items", id, "views", 1))
		}()
	}
	wg.Wait()

	doc, _ := s.store.Get(s.ctx, "items", id)
	s.Equal(int64(50), s.decode(doc).Views)
	s.Equal(before.UpdatedAt, doc.UpdatedAt)

	s.ErrorIs(s.store.Increment(s.ctx, "items", "missing", "views", 1), storage.ErrNotFound)
}

func (s *MemoryStoreTestSuite) TestQuery_FilterOrderLimitCursor() {
	for i, p := range []int{1, 5, 3, 5, 2} {
		s.create(item{Slug: string(rune('a' + i)), Status: "active", Priority: p})
	}
	s.create(item{Slug: "z", Status: "inactive", Priority: 9})

	q := storage.NewQuery("items").
		Where("status", storage.OpEqual, "active").
		OrderBy("priority", storage.Desc, storage.KindNumber).
		WithLimit(2)

	page1, err := s.store.Query(s.ctx, q)
	s.Require().NoError(err)
	s.Require().Len(page1, 2)
	s.Equal(5, s.decode(page1[0]).Priority)
	s.Equal(5, s.decode(page1[1]).Priority)
	s.Less(page1[0].ID, page1[1].ID)

	c, err := storage.CursorFor(page1[1], q.Orders)
	s.Require().NoError(err)
	page2, err := s.store.Query(s.ctx, q.After(c))
	s.Require().NoError(err)
	s.Require().Len(page2, 2)
	s.Equal(3, s.decode(page2[0]).Priority)
	s.Equal(2, s.decode(page2[1]).Priority)
}

func (s *MemoryStoreTestSuite) TestQuery_ExcludesDocumentsMissingOrderField() {
	s.create(item{Slug: "priced", Price: 10})
	s.create(item{Slug: "unpriced"})

	docs, err := s.store.Query(s.ctx, storage.NewQuery("items").OrderBy("price", storage.Asc, storage.KindNumber))
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("priced", s.decode(docs[0]).Slug)
}

func (s *MemoryStoreTestSuite) TestQuery_InvalidCursor() {
	q := storage.NewQuery("items").OrderBy("priority", storage.Desc, storage.KindNumber).
		After(&storage.Cursor{ID: "x"})
	_, err := s.store.Query(s.ctx, q)
	s.True(errors.Is(err, storage.ErrInvalidCursor))
}

func (s *MemoryStoreTestSuite) TestWatch_InitialSnapshotThenChanges() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	q := storage.NewQuery("items").
		Where("status", storage.OpEqual, "active").
		OrderBy("priority", storage.Desc, storage.KindNumber)
	sub, err := s.store.Watch(ctx, q)
	s.Require().NoError(err)

	first := <-sub.Updates()
	s.Empty(first.Documents)

	id := s.create(item{Slug: "a", Status: "active", Priority: 1})
	snap := <-sub.Updates()
	s.Require().Len(snap.Documents, 1)
	s.Equal(id, snap.Documents[0].ID)

	// A write that leaves the result unchanged is not delivered.
	s.create(item{Slug: "b", Status: "inactive"})
	select {
	case <-sub.Updates():
		s.Fail("unexpected snapshot")
	default:
	}

	s.Require().NoError(s.store.Delete(s.ctx, "items", id))
	snap = <-sub.Updates()
	s.Empty(snap.Documents)

	cancel()
	s.Eventually(func() bool {
		s.store.mu.RLock()
		defer s.store.mu.RUnlock()
		return len(s.store.watchers) == 0
	}, time.Second, 10*time.Millisecond)
	_, ok := <-sub.Updates()
	s.False(ok)
}
