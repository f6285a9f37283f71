package frontpage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/fallback"
	"local_portal/internal/service"
	"local_portal/internal/service/mocks"
	"local_portal/internal/storage/memory"
	"local_portal/testdata/utils"
)

type FrontpageTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	ctx   context.Context
	store *memory.Store

	articles    *service.ArticleService
	classifieds *service.ClassifiedService
	ads         *service.AdvertisementService
}

func (s *FrontpageTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.store = memory.NewStore(service.Schema())

	logger := utils.DiscardLogger()
	s.articles = service.NewArticleService(s.store, nil, logger, config.PortalConfig{})
	s.classifieds = service.NewClassifiedService(s.store, nil, logger, config.PortalConfig{})
	s.ads = service.NewAdvertisementService(s.store, nil, time.Minute, nil, logger)
}

func (s *FrontpageTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestFrontpageTestSuite(t *testing.T) {
	suite.Run(t, new(FrontpageTestSuite))
}

func (s *FrontpageTestSuite) newService(articles ArticleLister, classifieds ClassifiedLister, ads AdSelector) *Service {
	return NewService(articles, classifieds, ads, fallback.NewProvider(), Config{}, utils.DiscardLogger())
}

func (s *FrontpageTestSuite) failingStore() *mocks.MockDocumentStore {
	store := mocks.NewMockDocumentStore(s.ctrl)
	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable")).AnyTimes()
	return store
}

func (s *FrontpageTestSuite) TestLiveContentIsServed() {
	published := time.Now().Add(-time.Hour)
	_, err := s.articles.Create(s.ctx, domain.Article{
		Title:       "Prawdziwy artykuł",
		Slug:        "prawdziwy",
		Status:      domain.ArticleStatusPublished,
		PublishedAt: &published,
	})
	s.Require().NoError(err)

	svc := s.newService(s.articles, s.classifieds, s.ads)
	section := svc.Articles(s.ctx, domain.ArticleListOptions{})

	s.False(section.Placeholder)
	s.Nil(section.Notice)
	s.Require().Len(section.Items, 1)
	s.Equal("prawdziwy", section.Items[0].Slug)
}

func (s *FrontpageTestSuite) TestEmptyStoreServesPlaceholdersWithoutNotice() {
	svc := s.newService(s.articles, s.classifieds, s.ads)

	articles := svc.Articles(s.ctx, domain.ArticleListOptions{Category: "praca"})
	s.True(articles.Placeholder)
	s.Nil(articles.Notice)
	s.Require().Len(articles.Items, 1)
	s.Equal("praca", articles.Items[0].Category.Slug)

	classifieds := svc.Classifieds(s.ctx, domain.ClassifiedListOptions{Category: "motoryzacja"})
	s.True(classifieds.Placeholder)
	s.Require().Len(classifieds.Items, 1)
	s.Contains(classifieds.Items[0].Title, "Toyota")
}

func (s *FrontpageTestSuite) TestStoreFailureServesPlaceholdersWithNotice() {
	logger := utils.DiscardLogger()
	store := s.failingStore()
	svc := s.newService(
		service.NewArticleService(store, nil, logger, config.PortalConfig{}),
		service.NewClassifiedService(store, nil, logger, config.PortalConfig{}),
		service.NewAdvertisementService(store, nil, time.Minute, nil, logger),
	)

	home := svc.Home(s.ctx)

	for _, notice := range []*Notice{home.Hero.Notice, home.Articles.Notice, home.Classifieds.Notice, home.Sidebar.Notice} {
		s.Require().NotNil(notice)
		s.True(notice.Retryable)
		s.NotEmpty(notice.Message)
	}
	s.Len(home.Hero.Items, 4)
	s.Len(home.Sidebar.Items, 4)
	s.Len(home.Articles.Items, 4)
	s.Len(home.Classifieds.Items, 3)
	for _, c := range home.Classifieds.Items {
		s.True(c.Featured)
	}
}

func (s *FrontpageTestSuite) TestNoticeIsNotShared() {
	svc := s.newService(nil, nil, s.ads)
	store := s.failingStore()
	svc.ads = service.NewAdvertisementService(store, nil, time.Minute, nil, utils.DiscardLogger())

	first := svc.Ads(s.ctx, domain.AdPositionSidebar)
	first.Notice.Message = "zmienione"

	second := svc.Ads(s.ctx, domain.AdPositionSidebar)
	s.NotEqual("zmienione", second.Notice.Message)
}

func (s *FrontpageTestSuite) TestSlotWithoutPlaceholdersStaysEmpty() {
	svc := s.newService(s.articles, s.classifieds, s.ads)

	footer := svc.Ads(s.ctx, domain.AdPositionFooter)
	s.True(footer.Placeholder)
	s.NotNil(footer.Items)
	s.Empty(footer.Items)
}
