package screens

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connect4server/connect4/room"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(rooms *room.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Health)
	router.GET("/rooms", func(c *gin.Context) {
		RoomList(c, rooms)
	})
	router.GET("/rooms/:roomId", func(c *gin.Context) {
		RoomInfo(c, rooms, zap.NewNop())
	})
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(newRouter(room.NewRegistry()), "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRoomList(t *testing.T) {
	rooms := room.NewRegistry()
	open, err := rooms.Create(20, false)
	require.NoError(t, err)
	t.Cleanup(open.Close)
	_, err = open.AddPlayer("p1", "Alice")
	require.NoError(t, err)
	practice, err := rooms.Create(0, true)
	require.NoError(t, err)
	t.Cleanup(practice.Close)

	w := get(newRouter(rooms), "/rooms")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rooms []room.Info `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 1)
	assert.Equal(t, open.ID(), body.Rooms[0].RoomID)
	assert.Equal(t, "Alice", body.Rooms[0].HostNickname)
	assert.Equal(t, 2, body.Rooms[0].MaxPlayers)
}

func TestRoomInfo(t *testing.T) {
	rooms := room.NewRegistry()
	r, err := rooms.Create(0, true)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	router := newRouter(rooms)

	w := get(router, "/rooms/"+strings.ToLower(r.ID()))
	assert.Equal(t, http.StatusOK, w.Code)
	var info room.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, r.ID(), info.RoomID)
	assert.Equal(t, 0, info.TurnTime)

	w = get(router, "/rooms/ZZZZZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
