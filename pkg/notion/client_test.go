package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewClient("token")
	nc, ok := c.(*notionClient)
	require.True(t, ok)
	assert.NotNil(t, nc.limiter)
	assert.InDelta(t, 3.0, float64(nc.limiter.Limit()), 0.001)
}

func TestWithRateLimit(t *testing.T) {
	t.Parallel()

	c := NewClient("token", WithRateLimit(1.5))
	nc := c.(*notionClient)
	assert.InDelta(t, 1.5, float64(nc.limiter.Limit()), 0.001)

	unlimited := NewClient("token", WithRateLimit(0)).(*notionClient)
	assert.Nil(t, unlimited.limiter)
}
