package auth

import (
	"context"
	"net/http"

	"watchparty/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const userKey = "user"

// Authenticator 根据原始 cookie 对识别调用者；匿名或凭据不匹配时返回 nil 用户而不是错误。
type Authenticator interface {
	AuthenticateFromCookies(ctx context.Context, userID, password string) (*models.User, error)
}

// Identify 把识别出的用户挂到请求上，缺少凭据时不拦截请求。
func Identify(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, password, ok := ReadSession(c)
		if !ok {
			c.Next()
			return
		}
		user, err := a.AuthenticateFromCookies(c.Request.Context(), userID, password)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("authenticate from cookies")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error."})
			return
		}
		if user != nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// RequireUser 对未识别出用户的请求返回 403。
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Authentication required."})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok2 := v.(*models.User); ok2 {
			return u
		}
	}
	return nil
}

func GetUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
