package handlers

import (
	"net/http"

	"storyhub/internal/metrics"
	"storyhub/internal/middleware"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type LikeHandler struct {
	store   *store.Store
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewLikeHandler(st *store.Store, log logrus.FieldLogger, m *metrics.Metrics) *LikeHandler {
	return &LikeHandler{store: st, log: log, metrics: m}
}

// Toggle likes or unlikes a story for the caller (POST /api/stories/:id/like).
func (h *LikeHandler) Toggle(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	result, err := h.store.ToggleLike(c.Request.Context(), user.ID, id)
	if err != nil {
		respondStoreError(c, h.log, err, "Story not found")
		return
	}
	h.metrics.ObserveLike(result.Liked)
	c.JSON(http.StatusOK, result)
}
