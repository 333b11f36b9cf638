package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionUserKey = "user_id"
	LoginPath      = "/admin/login"
)

// RequireStaff пускает дальше только сотрудника, которого положил InjectUser.
// Остальных отправляет на страницу входа с параметром next.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			sess := sessions.Default(c)
			if sess.Get(SessionUserKey) != nil {
				// пользователь удалён или лишился прав
				sess.Delete(SessionUserKey)
				_ = sess.Save()
			}
			target := LoginPath
			if c.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
