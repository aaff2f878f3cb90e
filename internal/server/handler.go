package server

import (
	"net/http"
	"strconv"

	"watchparty/internal/auth"
	"watchparty/internal/metrics"
	"watchparty/internal/mw"
	"watchparty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	userSvc      *service.UserService
	roomSvc      *service.RoomService
	msgSvc       *service.MessageService
	views        *views
	cookieSecure bool
}

func NewHandler(userSvc *service.UserService, roomSvc *service.RoomService, msgSvc *service.MessageService, cookieSecure bool) *Handler {
	return &Handler{
		userSvc:      userSvc,
		roomSvc:      roomSvc,
		msgSvc:       msgSvc,
		views:        &views{t: pageTemplates},
		cookieSecure: cookieSecure,
	}
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func (h *Handler) pageFailed(c *gin.Context, err error, op string) {
	log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Uint("user_id", auth.GetUserID(c)).Msg(op)
	h.views.renderError(c)
}

// Index 首页：登录用户看到房间列表，匿名用户看到注册/登录入口。
func (h *Handler) Index(c *gin.Context) {
	user := auth.CurrentUser(c)
	data := gin.H{"User": user}
	if user != nil {
		rooms, err := h.roomSvc.List(c.Request.Context())
		if err != nil {
			h.pageFailed(c, err, "list rooms")
			return
		}
		data["Rooms"] = rooms
	}
	h.views.render(c, http.StatusOK, "index.tmpl", data)
}

func (h *Handler) NewRoomPage(c *gin.Context) {
	if auth.CurrentUser(c) == nil {
		c.JSON(http.StatusForbidden, gin.H{})
		return
	}
	h.views.render(c, http.StatusOK, "create_room.tmpl", gin.H{"User": auth.CurrentUser(c)})
}

// CreateRoom 创建占位名称的房间并跳转过去。
func (h *Handler) CreateRoom(c *gin.Context) {
	if auth.CurrentUser(c) == nil {
		c.JSON(http.StatusForbidden, gin.H{})
		return
	}
	room, err := h.roomSvc.Create(c.Request.Context())
	if err != nil {
		h.pageFailed(c, err, "create room")
		return
	}
	metrics.RoomsCreated.Inc()
	c.Redirect(http.StatusFound, "/rooms/"+strconv.FormatUint(uint64(room.ID), 10))
}

// Signup 发放一次性账号；已登录用户直接去个人页。
func (h *Handler) Signup(c *gin.Context) {
	if auth.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/profile")
		return
	}
	if c.Request.Method != http.MethodPost {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	user, err := h.userSvc.CreateUser(c.Request.Context())
	if err != nil {
		h.pageFailed(c, err, "signup")
		return
	}
	metrics.UsersCreated.Inc()
	auth.WriteSession(c, user.ID, user.Password, h.cookieSecure)
	log.Info().Str("request_id", mw.GetRequestID(c)).Uint("user_id", user.ID).Msg("user signed up")
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) Profile(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.views.render(c, http.StatusOK, "profile.tmpl", gin.H{"User": user})
}

func (h *Handler) LoginPage(c *gin.Context) {
	h.views.render(c, http.StatusOK, "login.tmpl", gin.H{"Failed": false})
}

// Login 校验表单里的用户名和密码，成功后写入会话 cookie。
func (h *Handler) Login(c *gin.Context) {
	name := c.PostForm("username")
	password := c.PostForm("password")
	if name == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		h.views.render(c, http.StatusOK, "login.tmpl", gin.H{"Failed": true})
		return
	}
	user, err := h.userSvc.AuthenticateByCredentials(c.Request.Context(), name, password)
	if err != nil {
		h.pageFailed(c, err, "login")
		return
	}
	if user == nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		h.views.render(c, http.StatusOK, "login.tmpl", gin.H{"Failed": true})
		return
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	auth.WriteSession(c, user.ID, user.Password, h.cookieSecure)
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) Logout(c *gin.Context) {
	auth.ClearSession(c, h.cookieSecure)
	c.Redirect(http.StatusFound, "/")
}

// Room 房间页，只对登录用户开放。
func (h *Handler) Room(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "Room not found")
		return
	}
	room, err := h.roomSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.pageFailed(c, err, "get room")
		return
	}
	if room == nil {
		c.String(http.StatusNotFound, "Room not found")
		return
	}
	h.views.render(c, http.StatusOK, "room.tmpl", gin.H{
		"User":   user,
		"Room":   room,
		"UserID": user.ID,
		"APIKey": user.APIKey,
	})
}
