package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"connect4server/models"

	"go.uber.org/zap"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore は再接続用のセッション情報を保存する
type SessionStore interface {
	Save(ctx context.Context, sessionID string, info models.SessionInfo) error
	Load(ctx context.Context, sessionID string) (models.SessionInfo, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, info models.SessionInfo) error {
	// セッション情報をJSON形式でエンコード
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode session info: %w", err)
	}
	// セッションIDとセッション情報をRedisに保存
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (models.SessionInfo, error) {
	var info models.SessionInfo
	data, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return info, ErrSessionNotFound
	}
	if err != nil {
		return info, fmt.Errorf("load session: %w", err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("decode session info: %w", err)
	}
	return info, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GenerateAndStoreSessionID issues a new session id for the client and stores
// its nickname and room so a reconnect can restore them.
func GenerateAndStoreSessionID(ctx context.Context, client *models.Client, roomID string, store SessionStore, logger *zap.Logger) (string, error) {
	sessionID := uuid.New().String()
	info := models.SessionInfo{
		ConnectionID: client.ID,
		Nickname:     client.Nickname,
		RoomID:       roomID,
		UpdatedAt:    time.Now(),
	}
	if err := store.Save(ctx, sessionID, info); err != nil {
		logger.Error("Error storing session info", zap.Error(err))
		return "", err
	}
	client.SessionID = sessionID
	return sessionID, nil
}

// UpdateSession refreshes the stored nickname and room for an existing session.
func UpdateSession(ctx context.Context, client *models.Client, roomID string, store SessionStore, logger *zap.Logger) {
	if client.SessionID == "" {
		return
	}
	info := models.SessionInfo{
		ConnectionID: client.ID,
		Nickname:     client.Nickname,
		RoomID:       roomID,
		UpdatedAt:    time.Now(),
	}
	if err := store.Save(ctx, client.SessionID, info); err != nil {
		logger.Warn("Failed to update session", zap.String("sessionID", client.SessionID), zap.Error(err))
	}
}
