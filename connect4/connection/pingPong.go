package connection

import (
	"time"

	"connect4server/models"

	"go.uber.org/zap"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second // 60秒の読み取りデッドライン
	pingPeriod     = 10 * time.Second // 10秒ごとにPingを送信
	maxMessageSize = 4096
)

// PrepareConn sets the read limit and keeps the read deadline alive on every pong.
func PrepareConn(c *models.Client) {
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// WritePump は接続への書き込みを一手に引き受け、Pingで接続を維持する。
// Sendが閉じられるとCloseメッセージを送って終了する
func WritePump(c *models.Client, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("Error writing message", zap.String("clientID", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			// Pingを送信
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Info("Error sending ping", zap.String("clientID", c.ID), zap.Error(err))
				return
			}
		}
	}
}
