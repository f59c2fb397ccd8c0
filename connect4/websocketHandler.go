package connect4

import (
	"context"
	"net/http"

	"connect4server/connect4/actions"
	"connect4server/connect4/broadcast"
	"connect4server/connect4/connection"
	"connect4server/connect4/database"
	"connect4server/models"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 64

// Server はWebSocket接続に必要な依存をまとめる
type Server struct {
	Dispatcher *actions.Dispatcher
	Hub        *broadcast.Hub
	Sessions   database.SessionStore
	Upgrader   websocket.Upgrader
	Logger     *zap.Logger
}

// WebSocket接続へのアップグレードを行う関数
func (s *Server) HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	// セッションIDの検証と復元
	clientContext, err := connection.FetchClientContext(ctx, r, s.Sessions, s.Logger)
	if err != nil {
		s.Logger.Error("Error fetching client context", zap.Error(err))
		http.Error(w, "Failed to restore session", http.StatusInternalServerError)
		return
	}

	// WebSocket接続へのアップグレードと確立
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade は失敗時に自分でレスポンスを書く
		s.Logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := &models.Client{
		ID:       uuid.New().String(),
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
		Nickname: clientContext.Nickname,
	}

	// クライアントリストに新規クライアントを追加
	s.Hub.Register(client)
	go connection.WritePump(client, s.Logger)
	s.Logger.Info("New client added", zap.String("clientID", client.ID), zap.Bool("restored", clientContext.Restored))

	// 新しいセッションIDの発行と保存、クライアントへの通知
	sessionID, err := database.GenerateAndStoreSessionID(ctx, client, clientContext.RoomID, s.Sessions, s.Logger)
	if err != nil {
		s.Logger.Error("Failed to generate or store session ID", zap.Error(err))
	}
	payload := map[string]interface{}{
		"sessionId":    sessionID,
		"connectionId": client.ID,
	}
	if clientContext.Restored {
		payload["restored"] = map[string]string{
			"nickname": clientContext.Nickname,
			"roomId":   clientContext.RoomID,
		}
	}
	s.Hub.Send(client, "session", payload)

	// 読み取りはこのゴルーチンで行う。切断時の後片付けもHandleClientが行う
	connection.PrepareConn(client)
	s.Dispatcher.HandleClient(ctx, client)
}
