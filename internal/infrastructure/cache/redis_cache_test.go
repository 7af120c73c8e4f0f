package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/pkg/config"
)

func TestNoop(t *testing.T) {
	var c Noop
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "services", []string{"a"}))

	var out []string
	found, err := c.Get(ctx, "services", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out)
	assert.NoError(t, c.Delete(ctx, "services", "packages"))
}

func TestNewRedisClient_URLInvalida(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "http://no-es-redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}
