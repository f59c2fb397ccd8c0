package broadcast

import (
	"connect4server/connect4/room"
)

// ゲームの状態をルーム内にブロードキャストするヘルパー関数
func BroadcastGameState(h *Hub, state room.State) {
	h.BroadcastToRoom(state.RoomID, "gameState", state)
}

// 公開ルーム一覧を全クライアントに送る。練習ルームは含まない
func BroadcastRoomList(h *Hub, rooms *room.Registry) {
	h.BroadcastAll("roomListUpdated", rooms.OpenRooms())
}

func BroadcastMoveMade(h *Hub, res room.MoveResult) {
	h.BroadcastToRoom(res.State.RoomID, "moveMade", map[string]interface{}{
		"row":       res.Row,
		"column":    res.Col,
		"color":     res.Color,
		"gameState": res.State,
	})
}

func BroadcastGameOver(h *Hub, state room.State) {
	h.BroadcastToRoom(state.RoomID, "gameOver", map[string]interface{}{
		"winner":           state.Winner,
		"winningPositions": state.WinningPositions,
		"isDraw":           state.IsDraw,
		"gameState":        state,
	})
}

func BroadcastRoomClosed(h *Hub, roomID, reason string) {
	h.BroadcastToRoom(roomID, "roomClosed", map[string]string{
		"roomId": roomID,
		"reason": reason,
	})
}
