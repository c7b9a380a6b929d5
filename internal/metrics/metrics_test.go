package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/stories/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/stories/1", "/api/stories/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/stories/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestHandlerExposesLikeCounter(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveLike(true)
	m.ObserveLike(false)
	m.ObserveLike(true)

	var nilMetrics *Metrics
	nilMetrics.ObserveLike(true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `storyhub_story_likes_toggled_total{liked="true"} 2`), body)
	assert.True(t, strings.Contains(body, `storyhub_story_likes_toggled_total{liked="false"} 1`), body)
}
