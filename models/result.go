package models

import "time"

// 終局理由
const (
	ReasonConnectFour = "connect4"
	ReasonDraw        = "draw"
	ReasonTimeout     = "timeout"
)

type ResultPlayer struct {
	Nickname string `json:"nickname"`
	Color    string `json:"color"`
	IsAI     bool   `json:"isAI"`
}

// GameResult は終局ごとにRedisへ配信される。ランキングや履歴の保存は購読側で行う
type GameResult struct {
	RoomID       string         `json:"roomId"`
	Players      []ResultPlayer `json:"players"`
	Winner       *ResultPlayer  `json:"winner"`
	Reason       string         `json:"reason"`
	Moves        int            `json:"moves"`
	TurnTime     int            `json:"turnTime"`
	PracticeMode bool           `json:"practiceMode"`
	FinishedAt   time.Time      `json:"finishedAt"`
}

// SessionInfo は再接続時に復元する情報
type SessionInfo struct {
	ConnectionID string    `json:"connectionId"`
	Nickname     string    `json:"nickname"`
	RoomID       string    `json:"roomId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
