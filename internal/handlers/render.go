package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20

var flashKinds = []string{"success", "error", "info"}

// Handlers держит зависимости для всех страниц сайта и админки.
type Handlers struct {
	svc *admin.Service
}

func New(svc *admin.Service) *Handlers {
	return &Handlers{svc: svc}
}

// render — обёртка над c.HTML, которая во все шаблоны прокидывает
// CurrentUser, флеш-сообщения и текущий запрос (для ссылок пагинации).
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u := middleware.CurrentUser(c); u != nil {
		data["CurrentUser"] = u
		data["CurrentUsername"] = u.Username
	}
	data["Flashes"] = takeFlashes(c)
	data["Path"] = c.Request.URL.Path
	data["Query"] = c.Request.URL.Query()

	c.HTML(status, tmpl, data)
}

// takeFlashes забирает сообщения из сессии: kind → список.
func takeFlashes(c *gin.Context) map[string][]string {
	sess := sessions.Default(c)
	out := map[string][]string{}
	for _, kind := range flashKinds {
		for _, f := range sess.Flashes(kind) {
			if s, ok := f.(string); ok {
				out[kind] = append(out[kind], s)
			}
		}
	}
	if len(out) > 0 {
		_ = sess.Save()
	}
	return out
}

func flash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}

// flashResult: сообщение операции, затем каждая ошибка валидации.
func flashResult(c *gin.Context, res admin.Result) {
	sess := sessions.Default(c)
	kind := "error"
	if res.Success {
		kind = "success"
	}
	if res.Message != "" {
		sess.AddFlash(res.Message, kind)
	}
	for _, e := range res.Errors {
		if e != res.Message {
			sess.AddFlash(e, "error")
		}
	}
	_ = sess.Save()
}

// fail отвечает 404 на admin.ErrNotFound и 500 на всё остальное.
func fail(c *gin.Context, err error) {
	if errors.Is(err, admin.ErrNotFound) {
		notFound(c)
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong. Please try again later.",
	})
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "The page you are looking for does not exist.",
	})
}

func actor(c *gin.Context) admin.Actor {
	a := admin.Actor{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if u := middleware.CurrentUser(c); u != nil {
		a.UserID = u.ID
		a.Username = u.Username
	}
	return a
}

// parseID — положительный id или 0.
func parseID(raw string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

func formInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return 0
	}
	return n
}

func checkbox(c *gin.Context, key string) bool {
	return c.PostForm(key) == "on"
}

// formFile читает загруженный файл; нет файла или форма не multipart — nil без ошибки.
func formFile(c *gin.Context, field string) (*admin.FileUpload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > maxUploadSize {
		return nil, errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadSize {
		return nil, errFileTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &admin.FileUpload{Filename: fh.Filename, Data: data}, nil
}

var errFileTooLarge = errors.New("file is larger than 10 MB")

// uploadOrFlash: при ошибке чтения файла кладёт флеш и возвращает false.
func uploadOrFlash(c *gin.Context, field string) (*admin.FileUpload, bool) {
	f, err := formFile(c, field)
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("failed to read uploaded file")
		flash(c, "error", "Error reading uploaded file: "+err.Error())
		return nil, false
	}
	return f, true
}

// safeNext — только локальный путь, без протокола и хоста.
func safeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}
