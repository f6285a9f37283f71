package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/service/mocks"
	"local_portal/internal/storage"
	"local_portal/internal/storage/memory"
	"local_portal/testdata/utils"
)

type SweeperTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	ctx       context.Context
	now       time.Time
	store     *memory.Store
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockPublisher
	sweeper   *Sweeper
}

func (s *SweeperTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.now = baseTime.Add(48 * time.Hour)
	s.store = memory.NewStore(Schema(), memory.WithClock(utils.Clock(baseTime, time.Second)))
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.sweeper = NewSweeper(s.store, s.txManager, s.publisher, utils.DiscardLogger(), config.SweepConfig{BatchSize: 2})
	s.sweeper.now = func() time.Time { return s.now }
}

func (s *SweeperTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSweeperTestSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}

func (s *SweeperTestSuite) runInline() {
	s.txManager.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func (s *SweeperTestSuite) status(collection, id string) string {
	doc, err := s.store.Get(s.ctx, collection, id)
	s.Require().NoError(err)
	fields, err := doc.Fields()
	s.Require().NoError(err)
	return fields["status"].(string)
}

func (s *SweeperTestSuite) TestSweep_ExpiresPastDeadlines() {
	stale := classified("Stare", "dom", "Radom", nil)
	stale.ExpiresAt = s.now.Add(-time.Hour)
	fresh := classified("Świeże", "dom", "Radom", nil)
	fresh.ExpiresAt = s.now.Add(time.Hour)
	sold := classified("Sprzedane", "dom", "Radom", nil)
	sold.Status = domain.ClassifiedStatusSold
	sold.ExpiresAt = s.now.Add(-time.Hour)

	var classifiedIDs []string
	for _, c := range []domain.Classified{stale, fresh, sold} {
		id, err := s.store.Create(s.ctx, CollectionClassifieds, c)
		s.Require().NoError(err)
		classifiedIDs = append(classifiedIDs, id)
	}

	adID, err := s.store.Create(s.ctx, CollectionAdvertisements, domain.Advertisement{
		Title:     "Koniec",
		Position:  domain.AdPositionSidebar,
		Status:    domain.AdStatusActive,
		StartDate: baseTime,
		EndDate:   s.now.Add(-time.Minute),
	})
	s.Require().NoError(err)

	s.runInline()
	var events []domain.ChangeEvent
	s.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e domain.ChangeEvent) error {
			events = append(events, e)
			return nil
		}).
		Times(2)

	stats, err := s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.ClassifiedsExpired)
	s.Equal(1, stats.AdsExpired)

	s.Equal(string(domain.ClassifiedStatusExpired), s.status(CollectionClassifieds, classifiedIDs[0]))
	s.Equal(string(domain.ClassifiedStatusActive), s.status(CollectionClassifieds, classifiedIDs[1]))
	s.Equal(string(domain.ClassifiedStatusSold), s.status(CollectionClassifieds, classifiedIDs[2]))
	s.Equal(string(domain.AdStatusExpired), s.status(CollectionAdvertisements, adID))

	for _, e := range events {
		s.Equal(domain.ChangeUpdate, e.Action)
	}
}

func (s *SweeperTestSuite) TestSweep_BatchLimited() {
	for i := 0; i < 5; i++ {
		c := classified("Stare", "dom", "Radom", nil)
		c.ExpiresAt = s.now.Add(-time.Duration(i+1) * time.Hour)
		_, err := s.store.Create(s.ctx, CollectionClassifieds, c)
		s.Require().NoError(err)
	}
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.runInline()
	stats, err := s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.ClassifiedsExpired)

	s.runInline()
	stats, err = s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.ClassifiedsExpired)

	docs, err := s.store.Query(s.ctx, storage.NewQuery(CollectionClassifieds).
		Where("status", storage.OpEqual, domain.ClassifiedStatusActive))
	s.Require().NoError(err)
	s.Len(docs, 1)
}

func (s *SweeperTestSuite) TestSweep_TransactionFailurePublishesNothing() {
	boom := errors.New("serialization failure")
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).Return(boom)

	stats, err := s.sweeper.Sweep(s.ctx)
	s.Nil(stats)
	s.ErrorIs(err, boom)
}
