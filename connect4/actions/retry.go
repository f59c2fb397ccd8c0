package actions

import (
	"connect4server/connect4/broadcast"
	"connect4server/models"

	"go.uber.org/zap"
)

// 再戦リクエスト。AI戦は1人の要求でリセットし、ルーレットも自動で回す
func (d *Dispatcher) handleRequestRematch(client *models.Client, msg models.Message) {
	r, err := d.memberRoom(client, msg)
	if err != nil {
		d.fail(client, r, "requestRematch", err)
		return
	}
	res, err := r.RequestRematch(client.ID)
	if err != nil {
		d.fail(client, r, "requestRematch", err)
		return
	}

	d.hub.BroadcastToRoom(r.ID(), "rematchRequested", map[string]interface{}{
		"gameState": res.State,
	})
	if !res.Reset {
		return
	}

	d.logger.Info("Game reset for rematch", zap.String("roomID", r.ID()))
	broadcast.BroadcastGameState(d.hub, res.State)
	d.hub.BroadcastToRoom(r.ID(), "gameReset", map[string]string{
		"message": "The game has been reset. Spin the wheel to start!",
	})
	d.broadcastRoomList()

	if res.State.HasAI {
		if err := d.spin(r); err != nil {
			d.logger.Warn("Auto spin failed", zap.String("roomID", r.ID()), zap.Error(err))
		}
	}
}
