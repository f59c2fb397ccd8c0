package models

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Websocketクライアントを定義
type Client struct {
	ID        string // 接続ごとのUUID
	SessionID string
	Nickname  string // 最後に使ったニックネーム。セッションに保存する
	Conn      *websocket.Conn
	Send      chan []byte // 書き込みはwriterゴルーチンだけが行う
}

// Message はクライアントとやり取りするJSONの封筒
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundMessage はサーバーから送るメッセージ
type OutboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
