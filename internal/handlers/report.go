package handlers

import (
	"net/http"

	"storyhub/internal/middleware"
	"storyhub/internal/models"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewReportHandler(st *store.Store, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{store: st, log: log}
}

type createReportRequest struct {
	StoryID   *uint  `json:"storyId"`
	CommentID *uint  `json:"commentId"`
	Reason    string `json:"reason" binding:"required,notblank,min=5,max=500"`
}

func (r *createReportRequest) sanitize() {
	cleanText(&r.Reason)
}

// target returns the single reported item, or false when zero or both ids
// were given.
func (r *createReportRequest) target() (models.ReportTarget, bool) {
	switch {
	case r.StoryID != nil && r.CommentID == nil:
		return models.StoryTarget(*r.StoryID), *r.StoryID != 0
	case r.CommentID != nil && r.StoryID == nil:
		return models.CommentTarget(*r.CommentID), *r.CommentID != 0
	}
	return models.ReportTarget{}, false
}

// Create files a report against a story or a comment (POST /api/reports).
func (h *ReportHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req createReportRequest
	if !bindJSON(c, &req) {
		return
	}
	target, ok := req.target()
	if !ok {
		abortField(c, "storyId", "Exactly one of storyId or commentId is required")
		return
	}

	report, err := h.store.CreateReport(c.Request.Context(), user.ID, target, req.Reason)
	if err != nil {
		respondStoreError(c, h.log, err, "Reported item not found")
		return
	}
	h.log.WithFields(logrus.Fields{
		"report_id":   report.ID,
		"target_type": target.Kind,
		"target_id":   target.ID,
	}).Info("Report filed")
	c.JSON(http.StatusCreated, report)
}
