package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"watchparty/internal/auth"
	"watchparty/internal/metrics"
	"watchparty/internal/mw"
	"watchparty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// apiError 把 service 层错误映射成 JSON 错误响应，存储错误细节只写日志。
func apiError(c *gin.Context, err error, invalidMsg, storageMsg string) {
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "Authentication required."})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMsg})
	default:
		msg := "api request failed"
		if errors.Is(err, service.ErrStorage) {
			msg = "api storage error"
		}
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Uint("user_id", auth.GetUserID(c)).Str("path", c.FullPath()).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": storageMsg})
	}
}

// roomIDFrom 接受 JSON 数字或十进制字符串形式的 room_id，其他情况（包括 0）都视为缺失。
func roomIDFrom(v any) uint {
	switch id := v.(type) {
	case float64:
		if id >= 1 && id == math.Trunc(id) && id <= math.MaxUint32 {
			return uint(id)
		}
	case string:
		if n, err := strconv.ParseUint(id, 10, 63); err == nil {
			return uint(n)
		}
	}
	return 0
}

// UpdateUserName 修改当前用户昵称。
func (h *Handler) UpdateUserName(c *gin.Context) {
	const invalid = "New username required."
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid})
		return
	}
	userID := auth.GetUserID(c)
	if err := h.userSvc.UpdateName(c.Request.Context(), userID, req.Name); err != nil {
		apiError(c, err, invalid, "Database error.")
		return
	}
	log.Info().Str("request_id", mw.GetRequestID(c)).Uint("user_id", userID).Str("name", req.Name).Msg("user renamed")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateUserPassword 修改当前用户密码，旧 cookie 随之失效。
func (h *Handler) UpdateUserPassword(c *gin.Context) {
	const invalid = "New password required."
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid})
		return
	}
	if err := h.userSvc.UpdatePassword(c.Request.Context(), auth.GetUserID(c), req.Password); err != nil {
		apiError(c, err, invalid, "Database error.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RenameRoom 不校验登录状态，任何人都能改房间名。
func (h *Handler) RenameRoom(c *gin.Context) {
	const invalid = "Room ID and new name required."
	var req struct {
		RoomID any    `json:"room_id"`
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid})
		return
	}
	if err := h.roomSvc.Rename(c.Request.Context(), roomIDFrom(req.RoomID), req.Name); err != nil {
		apiError(c, err, invalid, "Database error.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListMessages(c *gin.Context) {
	roomID, ok := parseID(c.Param("room_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return
	}
	msgs, err := h.msgSvc.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		apiError(c, err, "", "Database error.")
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessage 以当前用户身份发言。
func (h *Handler) PostMessage(c *gin.Context) {
	const invalid = "Message text required."
	roomID, ok := parseID(c.Param("room_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid})
		return
	}
	if err := h.msgSvc.Post(c.Request.Context(), roomID, auth.GetUserID(c), req.Body); err != nil {
		apiError(c, err, invalid, "Database operation failed.")
		return
	}
	metrics.MessagesPosted.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
