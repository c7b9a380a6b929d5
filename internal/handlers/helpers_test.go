package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyhub/internal/auth"
	"storyhub/internal/cache"
	"storyhub/internal/db"
	"storyhub/internal/metrics"
	"storyhub/internal/router"
	"storyhub/internal/services"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	engine *gin.Engine
	store  *store.Store
	gdb    *gorm.DB
}

type fakeUploader struct {
	uploaded []string
}

func (f *fakeUploader) UploadImage(_ context.Context, r io.Reader, _ int64, contentType string) (*services.ImageUploadResult, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	ext, _ := services.ImageExtension(contentType)
	name := fmt.Sprintf("avatars/%d%s", len(f.uploaded)+1, ext)
	f.uploaded = append(f.uploaded, name)
	return &services.ImageUploadResult{URL: "https://cdn.test/" + name, ObjectName: name}, nil
}

func newTestServer(t *testing.T, uploader services.ImageUploader) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(db.DriverSQLite, "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	lru, err := cache.NewLRU(16)
	require.NoError(t, err)
	sessionStore, err := auth.NewSessionStore("test-secret", false, nil, false)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New(gdb)
	engine := router.New(router.Deps{
		Store:    st,
		Cache:    lru,
		Log:      log,
		Metrics:  metrics.NewMetrics(prometheus.NewRegistry()),
		Sessions: sessionStore,
		Uploader: uploader,
	})
	return &testServer{engine: engine, store: st, gdb: gdb}
}

// client keeps the session cookie between requests like a browser would.
type client struct {
	t       *testing.T
	srv     *testServer
	cookies map[string]*http.Cookie
}

func (s *testServer) client(t *testing.T) *client {
	return &client{t: t, srv: s, cookies: map[string]*http.Cookie{}}
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.srv.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// register signs up and keeps the resulting session. It returns the user id.
func (c *client) register(username string) string {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	var user struct {
		ID string `json:"id"`
	}
	decode(c.t, w, &user)
	return user.ID
}

func (c *client) createStory(body map[string]interface{}) uint {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/stories", body)
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	var story struct {
		ID uint `json:"id"`
	}
	decode(c.t, w, &story)
	return story.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorField(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	decode(t, w, &body)
	return body.Field
}
