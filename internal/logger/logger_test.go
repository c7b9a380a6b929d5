package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareWritesStructuredLine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := New(&buf, "storyhub", "debug")

	r := gin.New()
	r.Use(Middleware(log))
	r.GET("/ping", func(c *gin.Context) {
		c.Set(UserIDKey, "u-1")
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "storyhub", line["service"])
	assert.Equal(t, "/ping", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "u-1", line["user_id"])
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "HTTP request rejected", line["message"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log := New(&bytes.Buffer{}, "storyhub", "loud")
	assert.Equal(t, "info", log.Logger.GetLevel().String())
}
