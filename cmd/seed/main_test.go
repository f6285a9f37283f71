package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/fallback"
	"local_portal/internal/service"
	"local_portal/internal/storage"
	"local_portal/internal/storage/memory"
	"local_portal/testdata/utils"
)

func TestSeeder_RunIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(service.Schema())
	logger := utils.DiscardLogger()

	s := &seeder{
		data:        fallback.NewProvider(),
		categories:  service.NewCategoryService(store, nil, 0, logger),
		articles:    service.NewArticleService(store, nil, logger, config.PortalConfig{}),
		classifieds: service.NewClassifiedService(store, nil, logger, config.PortalConfig{}),
		ads:         service.NewAdvertisementService(store, nil, 0, nil, logger),
		logger:      logger,
		now:         time.Now().UTC(),
	}

	require.NoError(t, s.run(ctx))
	require.NoError(t, s.run(ctx))

	count := func(collection string) int {
		docs, err := store.Query(ctx, storage.NewQuery(collection))
		require.NoError(t, err)
		return len(docs)
	}
	assert.Equal(t, 7, count(service.CollectionCategories))
	assert.Equal(t, 4, count(service.CollectionArticles))
	assert.Equal(t, 4, count(service.CollectionClassifieds))
	assert.Equal(t, 8, count(service.CollectionAdvertisements))

	hero, err := s.ads.ForPosition(ctx, domain.AdPositionHeroSlider)
	require.NoError(t, err)
	assert.Len(t, hero, 4)

	page, err := s.classifieds.List(ctx, domain.ClassifiedListOptions{})
	require.NoError(t, err)
	for _, c := range page.Items {
		assert.True(t, c.ExpiresAt.After(s.now), c.Title)
		assert.NotEqual(t, "1", c.Category.ID)
	}
}
