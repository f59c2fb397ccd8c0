package actions

import (
	"connect4server/connect4/broadcast"
	"connect4server/connect4/room"
	"connect4server/models"

	"go.uber.org/zap"
)

// TimeUpdate implements room.Notifier.
func (d *Dispatcher) TimeUpdate(roomID string, remaining int) {
	d.hub.BroadcastToRoom(roomID, "timeUpdate", map[string]interface{}{
		"roomId":        roomID,
		"remainingTime": remaining,
	})
}

// TimeOver implements room.Notifier. 時間切れは手番のプレイヤーの負け
func (d *Dispatcher) TimeOver(roomID string, loser, winner room.Player, state room.State) {
	d.logger.Info("Turn time over",
		zap.String("roomID", roomID),
		zap.String("loser", loser.Nickname),
		zap.String("winner", winner.Nickname),
	)
	d.hub.BroadcastToRoom(roomID, "timeOver", map[string]interface{}{
		"loser":     loser,
		"winner":    winner,
		"gameState": state,
	})
	broadcast.BroadcastGameOver(d.hub, state)
	d.publishResult(state, models.ReasonTimeout)
	d.broadcastRoomList()
}
