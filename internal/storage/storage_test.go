package storage

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StorageTestSuite struct {
	suite.Suite
}

func TestStorageTestSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (s *StorageTestSuite) fields(raw string) map[string]any {
	var m map[string]any
	s.Require().NoError(json.Unmarshal([]byte(raw), &m))
	return m
}

func (s *StorageTestSuite) TestMatch_Operators() {
	f := s.fields(`{"status":"active","price":100,"featured":true,"location":{"city":"Gdańsk"}}`)

	s.True(Match(f, Filter{Field: "status", Op: OpEqual, Value: "active"}))
	s.False(Match(f, Filter{Field: "status", Op: OpEqual, Value: "sold"}))
	s.True(Match(f, Filter{Field: "location.city", Op: OpEqual, Value: "Gdańsk"}))
	s.True(Match(f, Filter{Field: "price", Op: OpGreaterOrEqual, Value: 100}))
	s.False(Match(f, Filter{Field: "price", Op: OpGreater, Value: 100.0}))
	s.True(Match(f, Filter{Field: "price", Op: OpLess, Value: int64(101)}))
	s.True(Match(f, Filter{Field: "featured", Op: OpEqual, Value: true}))
}

func (s *StorageTestSuite) TestMatch_MissingOrMismatchedFieldNeverMatches() {
	f := s.fields(`{"status":"active","price":null}`)

	s.False(Match(f, Filter{Field: "price", Op: OpLessOrEqual, Value: 1000}))
	s.False(Match(f, Filter{Field: "city", Op: OpEqual, Value: "Gdańsk"}))
	s.False(Match(f, Filter{Field: "status", Op: OpEqual, Value: 1}))
}

func (s *StorageTestSuite) TestMatch_TimesCompareChronologically() {
	f := s.fields(`{"endDate":"2026-01-02T10:00:00+02:00"}`)
	at := time.Date(2026, 1, 2, 8, 30, 0, 0, time.UTC)

	s.True(Match(f, Filter{Field: "endDate", Op: OpGreaterOrEqual, Value: at}))
	s.False(Match(f, Filter{Field: "endDate", Op: OpGreaterOrEqual, Value: at.Add(time.Hour)}))
}

func (s *StorageTestSuite) TestCompareOrdered_DirectionsAndTieBreak() {
	orders := []Order{
		{Field: "priority", Direction: Desc, Kind: KindNumber},
		{Field: "createdAt", Direction: Asc, Kind: KindTime},
	}
	early := "2026-01-01T00:00:00Z"
	late := "2026-01-02T00:00:00Z"

	s.Negative(CompareOrdered([]any{5.0, late}, "b", []any{1.0, early}, "a", orders))
	s.Negative(CompareOrdered([]any{5.0, early}, "b", []any{5.0, late}, "a", orders))
	s.Negative(CompareOrdered([]any{5.0, early}, "a", []any{5.0, early}, "b", orders))
	s.Zero(CompareOrdered([]any{5.0, early}, "a", []any{5.0, early}, "a", orders))
}

func (s *StorageTestSuite) TestCursor_RoundTrip() {
	doc := Document{ID: "abc", Data: json.RawMessage(`{"publishedAt":"2026-03-01T12:00:00Z","title":"x"}`)}
	orders := []Order{{Field: "publishedAt", Direction: Desc, Kind: KindTime}}

	c, err := CursorFor(doc, orders)
	s.Require().NoError(err)

	decoded, err := DecodeCursor(c.Encode())
	s.Require().NoError(err)
	s.Equal("abc", decoded.ID)
	s.Equal([]any{"2026-03-01T12:00:00Z"}, decoded.Values)
}

func (s *StorageTestSuite) TestDecodeCursor_Invalid() {
	for _, token := range []string{"%%%", "bm90IGpzb24", "e30"} {
		_, err := DecodeCursor(token)
		s.True(errors.Is(err, ErrInvalidCursor), token)
	}
}

func (s *StorageTestSuite) TestQueryValidate() {
	q := NewQuery("articles").
		Where("status", OpEqual, "published").
		OrderBy("publishedAt", Desc, KindTime).
		WithLimit(10)
	s.NoError(q.Validate())

	s.Error(q.Where("tags", "array-contains", "x").Validate())
	s.Error(q.Where("x", OpEqual, []string{"a"}).Validate())
	s.Error(q.WithLimit(-1).Validate())

	bad := q.After(&Cursor{Values: []any{"a", "b"}, ID: "x"})
	s.True(errors.Is(bad.Validate(), ErrInvalidCursor))
}

func (s *StorageTestSuite) TestQueryBuilderDoesNotAlias() {
	base := NewQuery("ads").Where("status", OpEqual, "active")
	a := base.Where("position", OpEqual, "sidebar")
	b := base.Where("position", OpEqual, "hero-slider")

	s.Len(base.Filters, 1)
	s.Equal("sidebar", a.Filters[1].Value)
	s.Equal("hero-slider", b.Filters[1].Value)
}

func (s *StorageTestSuite) TestStream_LatestWinsAndDedup() {
	closed := 0
	st := NewStream(func() { closed++ })

	one := Snapshot{Documents: []Document{{ID: "1", Data: json.RawMessage(`{}`)}}}
	two := Snapshot{Documents: []Document{{ID: "2", Data: json.RawMessage(`{}`)}}}

	s.True(st.Deliver(one))
	s.True(st.Deliver(two))
	s.False(st.Deliver(two))

	got := <-st.Updates()
	s.Equal("2", got.Documents[0].ID)

	s.NoError(st.Close())
	s.NoError(st.Close())
	s.Equal(1, closed)
	s.False(st.Deliver(one))

	_, ok := <-st.Updates()
	s.False(ok)
}

func (s *StorageTestSuite) TestStream_Fail() {
	st := NewStream(nil)
	boom := errors.New("boom")
	st.Fail(boom)

	s.True(st.Closed())
	s.ErrorIs(st.Err(), boom)
}
