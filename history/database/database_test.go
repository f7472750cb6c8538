package database

import (
	"context"
	"fmt"
	"os"
	"testing"

	"gomokuserver/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	sessions := NewMemorySessions()
	client := &models.Client{RemoteAddr: "127.0.0.1:5000"}
	stranger := &models.Client{RemoteAddr: "127.0.0.1:5001"}

	id, err := GenerateAndStoreSessionID(ctx, client, sessions, logger)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, client.Owns(id))

	assert.NoError(t, ValidateSessionID(ctx, client, sessions, id, logger))
	assert.ErrorIs(t, ValidateSessionID(ctx, stranger, sessions, id, logger), ErrUnknownSession,
		"ids are bound to the connection that requested them")
	assert.ErrorIs(t, ValidateSessionID(ctx, client, sessions, "", logger), ErrUnknownSession)
	assert.ErrorIs(t, ValidateSessionID(ctx, client, sessions, "nope", logger), ErrUnknownSession)

	n, err := sessions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	RevokeSessions(ctx, client, sessions, logger)
	assert.ErrorIs(t, ValidateSessionID(ctx, client, sessions, id, logger), ErrUnknownSession)
	n, _ = sessions.Count(ctx)
	assert.Zero(t, n)
}

func TestMemoryHistoryKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryHistory()

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(ctx, models.HistoryEntry{
			PlayerOneName:   fmt.Sprintf("p1-%d", i),
			PlayerTwoName:   "p2",
			PlayerOneWinner: i%2 == 0,
		}))
	}

	all, err = store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, entry := range all {
		assert.Equal(t, fmt.Sprintf("p1-%d", i), entry.PlayerOneName)
	}

	all[0].PlayerOneName = "mutated"
	again, _ := store.All(ctx)
	assert.Equal(t, "p1-0", again[0].PlayerOneName, "All returns a snapshot")

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestRedisSessions(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	sessions := NewRedisSessions(rdb)

	client := &models.Client{RemoteAddr: "redis-test"}
	id, err := GenerateAndStoreSessionID(ctx, client, sessions, zaptest.NewLogger(t))
	require.NoError(t, err)

	ok, err := sessions.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := rdb.TTL(ctx, sessionPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), float64(0))

	require.NoError(t, sessions.Revoke(ctx, id))
	ok, err = sessions.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormHistory(t *testing.T) {
	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set")
	}
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_NAME"), os.Getenv("DB_PASSWORD"))
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MatchHistory{}))
	require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.MatchHistory{}).Error)

	ctx := context.Background()
	store := NewGormHistory(db)
	first := models.HistoryEntry{PlayerOneName: "Alice", PlayerTwoName: "Bob", PlayerOneWinner: true}
	second := models.HistoryEntry{PlayerOneName: "Carol", PlayerTwoName: "Dave", PlayerTwoWinner: true}
	require.NoError(t, store.Add(ctx, first))
	require.NoError(t, store.Add(ctx, second))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.HistoryEntry{first, second}, all)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
