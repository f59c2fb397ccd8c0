package database

import (
	"context"
	"testing"
	"time"

	"connect4server/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemorySessionStore(time.Hour)
	s.now = func() time.Time { return now }

	info := models.SessionInfo{ConnectionID: "c1", Nickname: "Alice", RoomID: "ABC123"}
	require.NoError(t, s.Save(ctx, "s1", info))

	got, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, info, got)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemorySessionStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "old", models.SessionInfo{Nickname: "Old"}))
	now = now.Add(30 * time.Minute)
	require.NoError(t, s.Save(ctx, "new", models.SessionInfo{Nickname: "New"}))
	now = now.Add(45 * time.Minute)

	_, err := s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Load(ctx, "new")
	assert.NoError(t, err)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, s.Purge())
	_, err = s.Load(ctx, "new")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGenerateAndStoreSessionID(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)
	client := &models.Client{ID: "c1", Nickname: "Alice"}

	id, err := GenerateAndStoreSessionID(ctx, client, "ROOM01", s, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Equal(t, id, client.SessionID)

	info, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", info.Nickname)
	assert.Equal(t, "ROOM01", info.RoomID)

	client.Nickname = "Alicia"
	UpdateSession(ctx, client, "", s, zap.NewNop())
	info, err = s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", info.Nickname)
	assert.Equal(t, "", info.RoomID)
}

func TestRedisStoresReportConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer rdb.Close()
	ctx := context.Background()

	store := NewRedisSessionStore(rdb, time.Hour)
	err := store.Save(ctx, "s1", models.SessionInfo{})
	assert.ErrorContains(t, err, "store session")

	_, err = store.Load(ctx, "s1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	pub := NewRedisResultPublisher(rdb, "")
	assert.Equal(t, DefaultResultsChannel, pub.channel)
	assert.ErrorContains(t, pub.Publish(ctx, models.GameResult{RoomID: "ABC123"}), "publish game result")
}

func TestNopResultPublisher(t *testing.T) {
	assert.NoError(t, NopResultPublisher{}.Publish(context.Background(), models.GameResult{}))
}
