package middleware

import (
	"context"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const currentUserKey = "CurrentUser"

// UserLoader возвращает сотрудника по id или nil.
type UserLoader interface {
	User(ctx context.Context, id uint) (*models.User, error)
}

func InjectUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserKey).(uint); ok && uid > 0 {
			user, err := users.User(c.Request.Context(), uid)
			if err != nil {
				log.Error().Err(err).Uint("user_id", uid).Msg("failed to load session user")
			} else if user != nil {
				c.Set(currentUserKey, user)
			}
		}

		c.Next()
	}
}

// CurrentUser — сотрудник текущего запроса или nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
