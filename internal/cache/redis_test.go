package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"local_portal/testdata/utils"
)

func TestNewRedisCache_InvalidURL(t *testing.T) {
	c, err := NewRedisCache(context.Background(), "mysql://nope", "portal:", utils.DiscardLogger())
	assert.Nil(t, c)
	assert.ErrorContains(t, err, "parse redis url")
}
