package screens

import (
	"errors"
	"net/http"

	"connect4server/connect4/room"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

// 公開ルーム一覧を返すハンドラー。WebSocketのroomListと同じ内容
func RoomList(c *gin.Context, rooms *room.Registry) {
	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms.OpenRooms(),
	})
}

// RoomInfo returns the list entry of one room, practice rooms included.
func RoomInfo(c *gin.Context, rooms *room.Registry, logger *zap.Logger) {
	r, err := rooms.Get(c.Param("roomId"))
	if errors.Is(err, room.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "room_not_found",
			"error":  err.Error(),
		})
		return
	}
	if err != nil {
		logger.Error("Failed to look up room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, r.Info())
}
