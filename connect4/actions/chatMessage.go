package actions

import (
	"strings"
	"time"
	"unicode/utf8"

	"connect4server/connect4/room"
	"connect4server/models"

	"go.uber.org/zap"
)

const maxChatLength = 200

type chatPayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// チャットメッセージを処理する関数
func (d *Dispatcher) handleChatMessage(client *models.Client, msg models.Message) {
	var p chatPayload
	if err := decodePayload(msg, &p); err != nil {
		d.fail(client, nil, "chatMessage", err)
		return
	}
	text := strings.TrimSpace(p.Message)
	if text == "" || utf8.RuneCountInString(text) > maxChatLength {
		d.fail(client, nil, "chatMessage", room.ErrInvalidMessage)
		return
	}
	r, err := d.roomFor(client, p.RoomID)
	if err != nil {
		d.fail(client, nil, "chatMessage", err)
		return
	}
	player, err := r.Player(client.ID)
	if err != nil {
		d.fail(client, r, "chatMessage", err)
		return
	}
	r.Touch()

	// 現在のタイムスタンプを取得
	timestamp := time.Now().Format(time.RFC3339)
	d.logger.Debug("Received chat message", zap.String("roomID", r.ID()), zap.String("from", client.ID))

	// ゲームルーム内の全クライアントにメッセージをブロードキャストする
	d.hub.BroadcastToRoom(r.ID(), "chatMessage", map[string]interface{}{
		"roomId":    r.ID(),
		"from":      player.ID,
		"nickname":  player.Nickname,
		"color":     player.Color,
		"message":   text,
		"timestamp": timestamp,
	})
}
