package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"/admin/profile":           "/admin/profile",
		"/admin/?page=2":           "/admin/?page=2",
		"":                         "/admin/",
		"//evil.example.com":       "/admin/",
		"/\\evil.example.com":      "/admin/",
		"https://evil.example.com": "/admin/",
		"admin":                    "/admin/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in, "/admin/"), in)
	}
}

func TestParseID(t *testing.T) {
	assert.Equal(t, uint(42), parseID("42"))
	assert.Equal(t, uint(7), parseID(" 7 "))
	assert.Zero(t, parseID(""))
	assert.Zero(t, parseID("-1"))
	assert.Zero(t, parseID("abc"))
}

func multipartContext(t *testing.T, field, filename string, data []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "x"))
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", &buf)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c
}

func TestFormFile(t *testing.T) {
	c := multipartContext(t, "image", "logo.png", []byte("png-bytes"))
	f, err := formFile(c, "image")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "logo.png", f.Filename)
	assert.Equal(t, []byte("png-bytes"), f.Data)

	c = multipartContext(t, "", "", nil)
	f, err = formFile(c, "image")
	require.NoError(t, err)
	assert.Nil(t, f)

	c = multipartContext(t, "image", "empty.png", nil)
	f, err = formFile(c, "image")
	require.NoError(t, err)
	assert.Nil(t, f, "empty file counts as no file")
}

func TestFormFile_URLEncodedForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("action=create&name=X"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f, err := formFile(c, "image")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, "X", c.PostForm("name"), "form fields stay readable")
}

func TestFormFile_TooLarge(t *testing.T) {
	c := multipartContext(t, "image", "big.png", make([]byte, maxUploadSize+1))
	_, err := formFile(c, "image")
	assert.ErrorIs(t, err, errFileTooLarge)
}

func TestCheckboxAndFormInt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/",
		bytes.NewBufferString("is_active=on&is_featured=off&display_order=3&bad=x"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.True(t, checkbox(c, "is_active"))
	assert.False(t, checkbox(c, "is_featured"))
	assert.False(t, checkbox(c, "missing"))
	assert.Equal(t, 3, formInt(c, "display_order"))
	assert.Zero(t, formInt(c, "bad"))
}
