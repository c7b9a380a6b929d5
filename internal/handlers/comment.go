package handlers

import (
	"net/http"

	"storyhub/internal/middleware"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CommentHandler struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewCommentHandler(st *store.Store, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{store: st, log: log}
}

// List returns a story's comments, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.store.GetComments(c.Request.Context(), id)
	if err != nil {
		h.log.WithError(err).WithField("story_id", id).Error("Failed to load comments")
		c.JSON(http.StatusOK, []CommentResponse{})
		return
	}
	c.JSON(http.StatusOK, presentComments(comments))
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=2000"`
}

func (r *createCommentRequest) sanitize() {
	cleanText(&r.Content)
}

// Create adds a comment and bumps the story's comment count.
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.store.CreateComment(c.Request.Context(), id, user.ID, req.Content)
	if err != nil {
		respondStoreError(c, h.log, err, "Story not found")
		return
	}
	c.JSON(http.StatusCreated, CommentResponse{Comment: *comment, Author: publicUser(comment.Author)})
}
