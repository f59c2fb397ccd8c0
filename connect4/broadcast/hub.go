package broadcast

import (
	"encoding/json"
	"sync"

	"connect4server/models"

	"go.uber.org/zap"
)

// Hub は接続中のクライアントと、各クライアントが入っているルームを管理する
type Hub struct {
	mu      sync.RWMutex
	clients map[*models.Client]string
	rooms   map[string]map[*models.Client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*models.Client]string),
		rooms:   make(map[string]map[*models.Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *models.Client) {
	h.mu.Lock()
	h.clients[c] = ""
	h.mu.Unlock()
}

// Unregister removes the client, closes its send channel and returns the room it was in.
func (h *Hub) Unregister(c *models.Client) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomID, ok := h.clients[c]
	if !ok {
		return ""
	}
	h.leaveLocked(c, roomID)
	delete(h.clients, c)
	close(c.Send)
	return roomID
}

// Join moves the client into roomID, leaving any previous room.
func (h *Hub) Join(c *models.Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev, ok := h.clients[c]
	if !ok {
		return
	}
	h.leaveLocked(c, prev)
	h.clients[c] = roomID
	members := h.rooms[roomID]
	if members == nil {
		members = make(map[*models.Client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
}

// Leave takes the client out of its room and returns the room id.
func (h *Hub) Leave(c *models.Client) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomID, ok := h.clients[c]
	if !ok {
		return ""
	}
	h.leaveLocked(c, roomID)
	h.clients[c] = ""
	return roomID
}

func (h *Hub) leaveLocked(c *models.Client, roomID string) {
	if roomID == "" {
		return
	}
	if members := h.rooms[roomID]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// ClearRoom detaches every member of a deleted room.
func (h *Hub) ClearRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[roomID] {
		if _, ok := h.clients[c]; ok {
			h.clients[c] = ""
		}
	}
	delete(h.rooms, roomID)
}

func (h *Hub) RoomOf(c *models.Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[c]
}

func (h *Hub) Members(roomID string) []*models.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*models.Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		members = append(members, c)
	}
	return members
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send queues a message for one client.
func (h *Hub) Send(c *models.Client, msgType string, payload interface{}) {
	data, ok := h.marshal(msgType, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, registered := h.clients[c]; registered {
		h.enqueue(c, data)
	}
}

// SendError は送信元のクライアントにだけエラーを返す
func (h *Hub) SendError(c *models.Client, message string) {
	h.Send(c, "error", map[string]string{"message": message})
}

func (h *Hub) BroadcastToRoom(roomID, msgType string, payload interface{}) {
	data, ok := h.marshal(msgType, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		h.enqueue(c, data)
	}
}

func (h *Hub) BroadcastAll(msgType string, payload interface{}) {
	data, ok := h.marshal(msgType, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, data)
	}
}

func (h *Hub) marshal(msgType string, payload interface{}) ([]byte, bool) {
	data, err := json.Marshal(models.OutboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.String("type", msgType), zap.Error(err))
		return nil, false
	}
	return data, true
}

// 送信キューが詰まっているクライアントには送らない
func (h *Hub) enqueue(c *models.Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		h.logger.Warn("Send buffer full, dropping message", zap.String("clientID", c.ID))
	}
}
