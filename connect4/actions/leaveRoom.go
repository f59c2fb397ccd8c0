package actions

import (
	"context"

	"connect4server/connect4/broadcast"
	"connect4server/connect4/database"
	"connect4server/models"

	"go.uber.org/zap"
)

func (d *Dispatcher) handleLeaveRoom(ctx context.Context, client *models.Client) {
	if !d.leaveCurrentRoom(client, "Opponent left the room") {
		d.hub.SendError(client, "not in a room")
		return
	}
	database.UpdateSession(ctx, client, "", d.sessions, d.logger)
}

// leaveCurrentRoom removes the client from its room. A room with no humans
// left is destroyed. Returns false when the client was not in a room.
func (d *Dispatcher) leaveCurrentRoom(client *models.Client, notice string) bool {
	roomID := d.hub.Leave(client)
	if roomID == "" {
		return false
	}
	r, err := d.rooms.Get(roomID)
	if err != nil {
		return true
	}
	res, err := r.RemovePlayer(client.ID)
	if err != nil {
		d.logger.Warn("Player was not in room", zap.String("roomID", roomID), zap.String("clientID", client.ID))
		return true
	}

	if res.HumansLeft == 0 {
		d.rooms.Delete(roomID)
		d.hub.ClearRoom(roomID)
		d.logger.Info("Room deleted", zap.String("roomID", roomID))
		d.broadcastRoomList()
		return true
	}

	broadcast.BroadcastGameState(d.hub, res.State)
	d.hub.BroadcastToRoom(roomID, "playerDisconnected", map[string]string{
		"message": notice,
	})
	d.broadcastRoomList()
	return true
}
