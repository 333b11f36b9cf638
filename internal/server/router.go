package server

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/config"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/handlers"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/middleware"
	"github.com/Amrita-Dey3792/matrichaya-properties/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	sessionName   = "matrichaya_session"
	sessionMaxAge = 14 * 24 * 60 * 60
)

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len(prefix) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-2 {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

// formatTime принимает time.Time или *time.Time, nil — пустая строка.
func formatTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatTime(*t)
	}
	return ""
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatUint(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

// pageURL — ссылка на страницу page с сохранением остальных параметров.
func pageURL(path string, q url.Values, page int) string {
	v := url.Values{}
	for k, vals := range q {
		v[k] = append([]string(nil), vals...)
	}
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}

// dict собирает map для передачи нескольких значений во вложенный шаблон.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

func funcMap(svc *admin.Service) template.FuncMap {
	return template.FuncMap{
		"maskEmail": maskEmail,
		"maskPhone": maskPhone,
		"media":     svc.Slots().Media().URL,
		"datetime":  formatTime,
		"price":     formatPrice,
		"plots":     formatUint,
		"pageURL":   pageURL,
		"dict":      dict,
	}
}

// NewRouter собирает gin.Engine. limiter может быть nil, тогда форма
// контактов не ограничивается.
func NewRouter(cfg *config.Config, svc *admin.Service, limiter middleware.Allower) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	tmpl, err := web.Templates(funcMap(svc), cfg.TemplatesGlob)
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.Static(cfg.MediaURL, cfg.MediaRoot)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectUser(svc))

	h := handlers.New(svc)

	// САЙТ
	r.GET("/", h.Home)
	r.GET("/land-properties", h.LandProperties)
	r.GET("/land-properties/:id", h.LandPropertyDetail)
	r.GET("/contact", h.ShowContact)
	r.POST("/contact", middleware.ContactThrottle(limiter, false), h.SubmitContact)

	ajax := r.Group("/contact/ajax")
	if len(cfg.CORSAllowOrigins) > 0 {
		ajax.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSAllowOrigins,
			AllowMethods: []string{http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}))
		ajax.OPTIONS("", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	ajax.POST("", middleware.ContactThrottle(limiter, true), h.ContactAJAX)

	// AUTH
	r.GET("/admin/login", h.ShowLogin)
	r.POST("/admin/login", h.Login)
	r.GET("/admin/logout", h.Logout)
	r.POST("/admin/logout", h.Logout)

	staff := r.Group("/admin")
	staff.Use(middleware.RequireStaff())

	staff.GET("/", h.Dashboard)
	staff.POST("/", h.DashboardAction)

	// КАРТИНКИ НАВБАРА
	staff.GET("/navbar/:category", h.NavbarImages)
	staff.POST("/navbar/:category", h.NavbarImagesAction)
	staff.GET("/logo-upload", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/admin/navbar/logo")
	})

	// КАРУСЕЛЬ
	staff.GET("/carousel-slides", h.Slides)
	staff.POST("/carousel-slides", h.SlidesAction)

	// УЧАСТКИ
	staff.GET("/land-properties", h.AdminListings)
	staff.POST("/land-properties", h.AdminListingsAction)

	// ЗАЯВКИ
	staff.GET("/contact-messages", h.Leads)
	staff.POST("/contact-messages", h.LeadsAction)

	// ЖУРНАЛ
	staff.GET("/activities", h.Activities)
	staff.GET("/activities/export", h.ExportActivities)
	staff.GET("/activities/delete-all", h.ConfirmPurgeActivities)
	staff.POST("/activities/delete-all", h.PurgeActivities)

	// ПРОФИЛЬ
	staff.GET("/profile", h.Profile)
	staff.POST("/profile", h.ProfileAction)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r, nil
}
