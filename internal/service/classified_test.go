package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/storage/memory"
	"local_portal/testdata/utils"
)

type ClassifiedServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	service *ClassifiedService
}

func (s *ClassifiedServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore(Schema(), memory.WithClock(utils.Clock(baseTime, time.Minute)))
	s.service = NewClassifiedService(s.store, nil, utils.DiscardLogger(), config.PortalConfig{})
}

func TestClassifiedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClassifiedServiceTestSuite))
}

func classified(title, category, city string, price *float64) domain.Classified {
	return domain.Classified{
		Title:       title,
		Description: "Opis: " + title,
		Price:       price,
		Currency:    domain.CurrencyPLN,
		Category:    domain.Category{Name: category, Slug: category},
		Location:    domain.Location{City: city, Region: "mazowieckie"},
		Contact:     domain.Contact{Name: "Jan"},
		Status:      domain.ClassifiedStatusActive,
		ExpiresAt:   baseTime.AddDate(0, 1, 0),
		UserID:      "user-1",
	}
}

func (s *ClassifiedServiceTestSuite) seed(items ...domain.Classified) []string {
	ids := make([]string, len(items))
	for i, c := range items {
		id, err := s.service.Create(s.ctx, c)
		s.Require().NoError(err)
		ids[i] = id
	}
	return ids
}

func (s *ClassifiedServiceTestSuite) TestList_DefaultsAndOrdering() {
	for i := 0; i < 25; i++ {
		s.seed(classified("Rower", "sport", "Warszawa", utils.Ptr(100.0)))
	}
	sold := classified("Sprzedany", "sport", "Warszawa", nil)
	sold.Status = domain.ClassifiedStatusSold
	s.seed(sold)

	page, err := s.service.List(s.ctx, domain.ClassifiedListOptions{})
	s.Require().NoError(err)
	s.Len(page.Items, 20)
	s.True(page.HasMore)
	for i := 1; i < len(page.Items); i++ {
		s.True(page.Items[i-1].CreatedAt.After(page.Items[i].CreatedAt))
	}
	for _, c := range page.Items {
		s.Equal(domain.ClassifiedStatusActive, c.Status)
	}
}

func (s *ClassifiedServiceTestSuite) TestList_EqualityFilters() {
	featured := classified("Laptop", "elektronika", "Gdańsk", utils.Ptr(4500.0))
	featured.Featured = true
	s.seed(
		featured,
		classified("Telefon", "elektronika", "Gdańsk", utils.Ptr(800.0)),
		classified("Tablet", "elektronika", "Kraków", utils.Ptr(900.0)),
		classified("Mieszkanie", "nieruchomosci", "Gdańsk", utils.Ptr(3500.0)),
	)

	page, err := s.service.List(s.ctx, domain.ClassifiedListOptions{Category: "elektronika", City: "Gdańsk"})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 2)
	for _, c := range page.Items {
		s.Equal("elektronika", c.Category.Slug)
		s.Equal("Gdańsk", c.Location.City)
	}

	page, err = s.service.List(s.ctx, domain.ClassifiedListOptions{Featured: true})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("Laptop", page.Items[0].Title)
}

// Matching listings beyond the fetched page are not returned: the price
// range only sees what the limit let through.
func (s *ClassifiedServiceTestSuite) TestList_PriceFilterUnderReturns() {
	// Oldest first: two cheap listings, then three expensive ones.
	s.seed(
		classified("Tani 1", "sport", "Łódź", utils.Ptr(50.0)),
		classified("Tani 2", "sport", "Łódź", utils.Ptr(60.0)),
		classified("Drogi 1", "sport", "Łódź", utils.Ptr(5000.0)),
		classified("Drogi 2", "sport", "Łódź", utils.Ptr(6000.0)),
		classified("Drogi 3", "sport", "Łódź", utils.Ptr(7000.0)),
	)

	page, err := s.service.List(s.ctx, domain.ClassifiedListOptions{Limit: 3, PriceMax: utils.Ptr(100.0)})
	s.Require().NoError(err)
	s.Empty(page.Items)
	s.True(page.HasMore)
	s.NotEmpty(page.Cursor)

	next, err := s.service.List(s.ctx, domain.ClassifiedListOptions{Limit: 3, PriceMax: utils.Ptr(100.0), Cursor: page.Cursor})
	s.Require().NoError(err)
	s.Len(next.Items, 2)
}

func (s *ClassifiedServiceTestSuite) TestList_PriceBoundsInclusiveAndSkipUnpriced() {
	s.seed(
		classified("Za darmo", "dom", "Poznań", nil),
		classified("Sto", "dom", "Poznań", utils.Ptr(100.0)),
		classified("Dwieście", "dom", "Poznań", utils.Ptr(200.0)),
		classified("Trzysta", "dom", "Poznań", utils.Ptr(300.0)),
	)

	page, err := s.service.List(s.ctx, domain.ClassifiedListOptions{PriceMin: utils.Ptr(100.0), PriceMax: utils.Ptr(200.0)})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 2)
	s.Equal("Dwieście", page.Items[0].Title)
	s.Equal("Sto", page.Items[1].Title)

	all, err := s.service.List(s.ctx, domain.ClassifiedListOptions{})
	s.Require().NoError(err)
	s.Len(all.Items, 4)
}

func (s *ClassifiedServiceTestSuite) TestGetByID_ActiveOnly() {
	expired := classified("Stary", "dom", "Poznań", nil)
	expired.Status = domain.ClassifiedStatusExpired
	ids := s.seed(classified("Nowy", "dom", "Poznań", nil), expired)

	got, err := s.service.GetByID(s.ctx, ids[0])
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Nowy", got.Title)
	s.Nil(got.Price)

	hidden, err := s.service.GetByID(s.ctx, ids[1])
	s.NoError(err)
	s.Nil(hidden)
}

func (s *ClassifiedServiceTestSuite) TestUpdateAndCounters() {
	ids := s.seed(classified("Kanapa", "dom", "Opole", utils.Ptr(700.0)))

	s.Require().NoError(s.service.Update(s.ctx, ids[0], domain.ClassifiedUpdate{Price: utils.Ptr(650.0)}))
	s.Require().NoError(s.service.IncrementViews(s.ctx, ids[0]))
	s.Require().NoError(s.service.IncrementViews(s.ctx, ids[0]))
	s.Require().NoError(s.service.IncrementFavorites(s.ctx, ids[0]))

	got, err := s.service.GetByID(s.ctx, ids[0])
	s.Require().NoError(err)
	s.Equal(650.0, *got.Price)
	s.Equal(int64(2), got.Views)
	s.Equal(int64(1), got.Favorites)

	s.Require().NoError(s.service.Update(s.ctx, ids[0], domain.ClassifiedUpdate{}))
	s.Require().NoError(s.service.Delete(s.ctx, ids[0]))
	got, err = s.service.GetByID(s.ctx, ids[0])
	s.NoError(err)
	s.Nil(got)
}
