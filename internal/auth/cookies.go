package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 会话就是这对 cookie 本身，服务端不保存任何会话状态。
const (
	CookieUserID   = "user_id"
	CookiePassword = "user_password"
)

// ReadSession 读取原始 cookie 对；任一缺失或为空时 ok 为 false。
func ReadSession(c *gin.Context) (userID, password string, ok bool) {
	userID, _ = c.Cookie(CookieUserID)
	password, _ = c.Cookie(CookiePassword)
	return userID, password, userID != "" && password != ""
}

// c.SetCookie 写入前做 url.QueryEscape，c.Cookie 读取时再反转义，
// 所以密码里的 + % ; 等字符能原样往返。
func setCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

// WriteSession 为用户签发 cookie 对，不设过期时间，直到登出或改密码才失效。
func WriteSession(c *gin.Context, userID uint, password string, secure bool) {
	setCookie(c, CookieUserID, strconv.FormatUint(uint64(userID), 10), 0, secure)
	setCookie(c, CookiePassword, password, 0, secure)
}

func ClearSession(c *gin.Context, secure bool) {
	setCookie(c, CookieUserID, "", -1, secure)
	setCookie(c, CookiePassword, "", -1, secure)
}
