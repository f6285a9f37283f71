package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/storage"
	"local_portal/internal/storage/memory"
	"local_portal/testdata/utils"
)

type SearchServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	store       *memory.Store
	articles    *ArticleService
	classifieds *ClassifiedService
	service     *SearchService
}

func (s *SearchServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore(Schema(), memory.WithClock(utils.Clock(baseTime, time.Second)))
	logger := utils.DiscardLogger()
	s.articles = NewArticleService(s.store, nil, logger, config.PortalConfig{})
	s.classifieds = NewClassifiedService(s.store, nil, logger, config.PortalConfig{})
	s.service = NewSearchService(s.store, NewAnalyticsService(s.store, logger), logger,
		config.PortalConfig{SearchArticleCap: 3, SearchClassifiedCap: 3})
}

func TestSearchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SearchServiceTestSuite))
}

func (s *SearchServiceTestSuite) seedArticle(slug, title string, publishedAt time.Time) {
	a := article(slug, "miasto", publishedAt)
	a.Title = title
	_, err := s.articles.Create(s.ctx, a)
	s.Require().NoError(err)
}

func (s *SearchServiceTestSuite) seedClassified(title, description string) {
	c := classified(title, "dom", "Kraków", nil)
	c.Description = description
	_, err := s.classifieds.Create(s.ctx, c)
	s.Require().NoError(err)
}

func (s *SearchServiceTestSuite) TestSearch_CaseInsensitiveAcrossFields() {
	s.seedArticle("park", "Nowy PARK w centrum", baseTime)
	s.seedArticle("droga", "Remont drogi", baseTime.Add(time.Hour))
	s.seedClassified("Rower miejski", "Mało używany")
	s.seedClassified("Stół", "Idealny do parku i ogrodu")

	results, err := s.service.Search(s.ctx, "Park", domain.SearchAll)
	s.Require().NoError(err)
	s.Require().Len(results.Articles, 1)
	s.Equal("park", results.Articles[0].Slug)
	s.Require().Len(results.Classifieds, 1)
	s.Equal("Stół", results.Classifieds[0].Title)
}

func (s *SearchServiceTestSuite) TestSearch_OnlyScansRecentWindow() {
	s.seedArticle("stary", "Festiwal jesienny", baseTime)
	for i := 1; i <= 3; i++ {
		s.seedArticle(string(rune('a'+i)), "Inne wiadomości", baseTime.Add(time.Duration(i)*time.Hour))
	}

	results, err := s.service.Search(s.ctx, "festiwal", domain.SearchArticles)
	s.Require().NoError(err)
	s.Empty(results.Articles)
	s.Empty(results.Classifieds)
}

func (s *SearchServiceTestSuite) TestSearch_TypeRestrictsCollections() {
	s.seedArticle("sklep", "Sklep otwarty", baseTime)
	s.seedClassified("Sklep meblowy", "Likwidacja")

	results, err := s.service.Search(s.ctx, "sklep", domain.SearchClassifieds)
	s.Require().NoError(err)
	s.Empty(results.Articles)
	s.Len(results.Classifieds, 1)
}

func (s *SearchServiceTestSuite) TestSearch_EmptyQueryMatchesEverything() {
	s.seedArticle("a", "Jeden", baseTime)
	s.seedClassified("Dwa", "Trzy")

	results, err := s.service.Search(s.ctx, "  ", domain.SearchAll)
	s.Require().NoError(err)
	s.Len(results.Articles, 1)
	s.Len(results.Classifieds, 1)
}

func (s *SearchServiceTestSuite) TestSearch_RecordsAnalyticsEvent() {
	_, err := s.service.Search(s.ctx, "rower", domain.SearchAll)
	s.Require().NoError(err)

	docs, err := s.store.Query(s.ctx, storage.NewQuery(CollectionAnalytics))
	s.Require().NoError(err)
	s.Require().Len(docs, 1)

	var event domain.Analytics
	s.Require().NoError(docs[0].DataTo(&event))
	s.Equal(domain.AnalyticsSearch, event.Type)
	s.Equal("rower", event.Data.SearchQuery)
	s.False(event.Timestamp.IsZero())
}

func (s *SearchServiceTestSuite) TestParseSearchType() {
	typ, err := domain.ParseSearchType("")
	s.NoError(err)
	s.Equal(domain.SearchAll, typ)

	_, err = domain.ParseSearchType("users")
	s.ErrorIs(err, domain.ErrInvalidSearchType)
}
