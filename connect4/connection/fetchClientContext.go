package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connect4server/connect4/database"

	"go.uber.org/zap"
)

// ClientContext はクライアントのセッション情報を保持するための構造体です。
type ClientContext struct {
	PreviousSessionID string
	Restored          bool
	Nickname          string
	RoomID            string
}

// sessionIDFromRequest reads the SessionID header, falling back to the sessionId query parameter.
func sessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get("SessionID"); id != "" {
		return id
	}
	return r.URL.Query().Get("sessionId")
}

// FetchClientContext restores the nickname and last room of a reconnecting
// client. An unknown or expired session starts a fresh one.
func FetchClientContext(ctx context.Context, r *http.Request, store database.SessionStore, logger *zap.Logger) (*ClientContext, error) {
	sessionID := sessionIDFromRequest(r)
	if sessionID == "" {
		return &ClientContext{}, nil
	}

	info, err := store.Load(ctx, sessionID)
	if errors.Is(err, database.ErrSessionNotFound) {
		logger.Info("Session expired or unknown", zap.String("sessionID", sessionID))
		return &ClientContext{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	// 旧セッションの削除。新しいセッションIDは接続後に発行する
	if err := store.Delete(ctx, sessionID); err != nil {
		logger.Warn("Failed to delete old session", zap.String("sessionID", sessionID), zap.Error(err))
	}

	return &ClientContext{
		PreviousSessionID: sessionID,
		Restored:          true,
		Nickname:          info.Nickname,
		RoomID:            info.RoomID,
	}, nil
}
