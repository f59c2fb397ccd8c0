package actions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"connect4server/connect4/broadcast"
	"connect4server/connect4/database"
	"connect4server/connect4/room"
	"connect4server/internal/ai"
	"connect4server/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultSpinDuration      = 3 * time.Second
	DefaultAIDelay           = 700 * time.Millisecond
	DefaultInactivityTimeout = 30 * time.Minute
)

var errInvalidPayload = errors.New("invalid message payload")

type Options struct {
	SpinDuration      time.Duration
	AIDelay           time.Duration
	AIDepth           int
	InactivityTimeout time.Duration
	// RoomOptions are applied to every room created by the dispatcher.
	RoomOptions []room.Option
}

func (o Options) withDefaults() Options {
	if o.SpinDuration <= 0 {
		o.SpinDuration = DefaultSpinDuration
	}
	if o.AIDelay <= 0 {
		o.AIDelay = DefaultAIDelay
	}
	if o.AIDepth <= 0 {
		o.AIDepth = ai.DefaultDepth
	}
	if o.InactivityTimeout <= 0 {
		o.InactivityTimeout = DefaultInactivityTimeout
	}
	return o
}

// Dispatcher routes client messages to rooms and fans the results out through the hub.
type Dispatcher struct {
	rooms    *room.Registry
	hub      *broadcast.Hub
	sessions database.SessionStore
	results  database.ResultPublisher
	logger   *zap.Logger
	opts     Options

	// ルーレット待ちとAI思考のゴルーチン
	wg sync.WaitGroup
}

func NewDispatcher(rooms *room.Registry, hub *broadcast.Hub, sessions database.SessionStore, results database.ResultPublisher, logger *zap.Logger, opts Options) *Dispatcher {
	return &Dispatcher{
		rooms:    rooms,
		hub:      hub,
		sessions: sessions,
		results:  results,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// Wait blocks until background spin and AI goroutines have returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// クライアントごとにメッセージ読み取りするゴルーチン
func (d *Dispatcher) HandleClient(ctx context.Context, client *models.Client) {
	defer d.Disconnect(client)

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.logger.Error("WebSocket error", zap.String("clientID", client.ID), zap.Error(err))
			}
			return
		}

		// 受信したメッセージをJSON形式でデコード
		var msg models.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			d.logger.Warn("Error decoding message", zap.String("clientID", client.ID), zap.Error(err))
			d.hub.SendError(client, "invalid message format")
			continue
		}
		d.Handle(ctx, client, msg)
	}
}

// メッセージタイプに基づいて適切なアクションを実行
func (d *Dispatcher) Handle(ctx context.Context, client *models.Client, msg models.Message) {
	switch msg.Type {
	case "createRoom":
		d.handleCreateRoom(ctx, client, msg)
	case "joinRoom":
		d.handleJoinRoom(ctx, client, msg)
	case "getRoomList":
		d.handleGetRoomList(client)
	case "addAI":
		d.handleAddAI(client, msg)
	case "spinWheel":
		d.handleSpinWheel(client, msg)
	case "makeMove":
		d.handleMakeMove(client, msg)
	case "undoMove":
		d.handleUndoMove(client, msg)
	case "requestRematch":
		d.handleRequestRematch(client, msg)
	case "updateNickname":
		d.handleUpdateNickname(ctx, client, msg)
	case "leaveRoom":
		d.handleLeaveRoom(ctx, client)
	case "chatMessage":
		d.handleChatMessage(client, msg)
	default:
		d.logger.Info("Received unknown message type", zap.String("type", msg.Type), zap.String("clientID", client.ID))
		d.hub.SendError(client, "unknown message type")
	}
}

// Disconnect removes the client from its room and from the hub.
func (d *Dispatcher) Disconnect(client *models.Client) {
	d.leaveCurrentRoom(client, "Opponent disconnected")
	d.hub.Unregister(client)
	if client.Conn != nil {
		client.Conn.Close()
	}
	d.logger.Info("Client removed", zap.String("clientID", client.ID))
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

func decodePayload(msg models.Message, v interface{}) error {
	if len(msg.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return errInvalidPayload
	}
	return nil
}

// roomFor resolves the room named in the payload, or the client's current room.
func (d *Dispatcher) roomFor(client *models.Client, roomID string) (*room.Room, error) {
	if roomID == "" {
		roomID = d.hub.RoomOf(client)
	}
	if roomID == "" {
		return nil, room.ErrRoomNotFound
	}
	return d.rooms.Get(roomID)
}

// memberRoom is roomFor plus a check that the client plays in that room.
func (d *Dispatcher) memberRoom(client *models.Client, msg models.Message) (*room.Room, error) {
	var p roomPayload
	if err := decodePayload(msg, &p); err != nil {
		return nil, err
	}
	r, err := d.roomFor(client, p.RoomID)
	if err != nil {
		return nil, err
	}
	if _, err := r.Player(client.ID); err != nil {
		return nil, err
	}
	return r, nil
}

// エラーは送信元のクライアントにだけ返す。盤面の破損はルームを閉じる
func (d *Dispatcher) fail(client *models.Client, r *room.Room, op string, err error) {
	if room.IsFatal(err) && r != nil {
		d.logger.Error("Room state corrupted", zap.String("roomID", r.ID()), zap.String("op", op), zap.Error(err))
		d.closeRoom(r, "corrupted")
		d.broadcastRoomList()
		return
	}
	d.logger.Debug("Request rejected", zap.String("clientID", client.ID), zap.String("op", op), zap.Error(err))
	d.hub.SendError(client, err.Error())
}

func (d *Dispatcher) broadcastRoomList() {
	broadcast.BroadcastRoomList(d.hub, d.rooms)
}

// closeRoom tells the members why, then deletes the room.
func (d *Dispatcher) closeRoom(r *room.Room, reason string) {
	broadcast.BroadcastRoomClosed(d.hub, r.ID(), reason)
	d.rooms.Delete(r.ID())
	d.hub.ClearRoom(r.ID())
	d.logger.Info("Room closed", zap.String("roomID", r.ID()), zap.String("reason", reason))
}
