package middleware

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const ThrottledMessage = "Too many messages. Please try again later."

// Allower — счётчик попыток, например ratelimit.Limiter.
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// ContactThrottle ограничивает отправку формы контактов по IP. Без лимитера
// или при ошибке Redis запрос пропускается.
func ContactThrottle(l Allower, asJSON bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		allowed, err := l.Allow(c.Request.Context(), "contact:"+c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Msg("contact rate limiter unavailable")
			c.Next()
			return
		}
		if allowed {
			c.Next()
			return
		}

		log.Warn().Str("ip", c.ClientIP()).Msg("contact form throttled")
		if asJSON {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"errors":  []string{ThrottledMessage},
			})
			return
		}
		sess := sessions.Default(c)
		sess.AddFlash(ThrottledMessage, "error")
		_ = sess.Save()
		c.Redirect(http.StatusFound, c.Request.URL.Path)
		c.Abort()
	}
}
