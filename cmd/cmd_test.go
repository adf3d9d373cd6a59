package cmd

import (
	"context"
	"testing"
	"time"

	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/config"
	"pinboard-backend/internal/repository/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	st, closeStore, err := openStore(context.Background(), config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	defer closeStore()

	_, ok := st.(*memory.Store)
	assert.True(t, ok)
	assert.NoError(t, st.Ping(context.Background()))
}

func TestOpenStore_BadDSN(t *testing.T) {
	_, _, err := openStore(context.Background(), config.DatabaseConfig{Driver: "postgres", Port: -1, SSLMode: "bogus"})
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, closeCache := openCache(ctx, config.RedisConfig{Enabled: false})
	closeCache()
	assert.IsType(t, cache.Noop{}, c)

	mr := miniredis.RunT(t)
	c, closeCache = openCache(ctx, config.RedisConfig{Enabled: true, Addr: mr.Addr(), TTL: time.Minute})
	defer closeCache()
	assert.IsType(t, &cache.RedisUserCache{}, c)

	down := miniredis.RunT(t)
	addr := down.Addr()
	down.Close()
	c, closeDown := openCache(ctx, config.RedisConfig{Enabled: true, Addr: addr})
	closeDown()
	assert.IsType(t, cache.Noop{}, c)
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setupLogger("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setupLogger("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	setupLogger("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
