package actions

import "connect4server/models"

func (d *Dispatcher) handleGetRoomList(client *models.Client) {
	d.hub.Send(client, "roomList", d.rooms.OpenRooms())
}
