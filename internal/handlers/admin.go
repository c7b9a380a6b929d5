package handlers

import (
	"net/http"

	"storyhub/internal/middleware"
	"storyhub/internal/models"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves /api/admin; AdminRequired guards every route.
type AdminHandler struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewAdminHandler(st *store.Store, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{store: st, log: log}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.store.GetAdminStats(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

type reportsQuery struct {
	Status string `form:"status" json:"status" binding:"omitempty,oneof=pending resolved dismissed"`
}

// Reports lists reports newest first, optionally filtered by status.
func (h *AdminHandler) Reports(c *gin.Context) {
	var q reportsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, err)
		return
	}
	reports, err := h.store.GetReports(c.Request.Context(), models.ReportStatus(q.Status))
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	c.JSON(http.StatusOK, reports)
}

type updateReportRequest struct {
	Status string `json:"status" binding:"required,oneof=resolved dismissed"`
}

// UpdateReport resolves or dismisses a pending report. A report that is no
// longer pending answers 409.
func (h *AdminHandler) UpdateReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.store.UpdateReportStatus(c.Request.Context(), id, models.ReportStatus(req.Status))
	if err != nil {
		respondStoreError(c, h.log, err, "Report not found")
		return
	}
	h.log.WithFields(logrus.Fields{
		"report_id": id,
		"status":    report.Status,
		"admin_id":  middleware.CurrentUser(c).ID,
	}).Info("Report reviewed")
	c.JSON(http.StatusOK, report)
}

type highlightRequest struct {
	IsHighlight *bool `json:"isHighlight" binding:"required"`
}

// Highlight sets the editorial flag used by the highlight sort.
func (h *AdminHandler) Highlight(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req highlightRequest
	if !bindJSON(c, &req) {
		return
	}
	story, err := h.store.SetHighlight(c.Request.Context(), id, *req.IsHighlight)
	if err != nil {
		respondStoreError(c, h.log, err, "Story not found")
		return
	}
	c.JSON(http.StatusOK, presentStory(*story, middleware.CurrentUser(c)))
}

type updateUserRequest struct {
	Role      *string `json:"role" binding:"omitempty,oneof=user admin"`
	IsPremium *bool   `json:"isPremium"`
}

// UpdateUser changes a user's role or premium flag.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.store.UpdateUserAdmin(c.Request.Context(), c.Param("id"), store.AdminUserUpdate{
		Role:      req.Role,
		IsPremium: req.IsPremium,
	})
	if err != nil {
		respondStoreError(c, h.log, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
