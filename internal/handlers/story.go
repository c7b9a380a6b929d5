package handlers

import (
	"errors"
	"net/http"

	"storyhub/internal/middleware"
	"storyhub/internal/store"
	"storyhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxFeedLimit caps the number of stories a single feed request returns.
const maxFeedLimit = 100

type StoryHandler struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewStoryHandler(st *store.Store, log logrus.FieldLogger) *StoryHandler {
	return &StoryHandler{store: st, log: log}
}

type feedQuery struct {
	CategoryID uint   `form:"categoryId" json:"categoryId"`
	Search     string `form:"search" json:"search" binding:"max=200"`
	Sort       string `form:"sort" json:"sort" binding:"omitempty,oneof=latest trending highlight"`
	Limit      int    `form:"limit" json:"limit" binding:"omitempty,min=1"`
}

// List serves the feed (GET /api/stories). Persistence failures degrade to
// an empty list so the page still renders.
func (h *StoryHandler) List(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, err)
		return
	}
	sort, ok := store.ParseSort(q.Sort)
	if !ok {
		abortField(c, "sort", "sort must be one of: latest trending highlight")
		return
	}
	if q.Limit > maxFeedLimit {
		q.Limit = maxFeedLimit
	}

	stories, err := h.store.GetStories(c.Request.Context(), store.StoryFilter{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		Sort:       sort,
		Limit:      q.Limit,
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to load feed")
		c.JSON(http.StatusOK, []StoryResponse{})
		return
	}
	c.JSON(http.StatusOK, presentStories(stories, middleware.CurrentUser(c)))
}

// Detail returns one story with rendered content (GET /api/stories/:id).
func (h *StoryHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	story, err := h.store.GetStory(ctx, id)
	if err != nil {
		respondStoreError(c, h.log, err, "Story not found")
		return
	}

	viewer := middleware.CurrentUser(c)
	resp := presentStory(*story, viewer)
	resp.ContentHTML = string(utils.RenderMarkdown(story.Content))
	if viewer != nil {
		liked, err := h.store.HasLiked(ctx, viewer.ID, story.ID)
		if err != nil {
			h.log.WithError(err).WithField("story_id", story.ID).Warn("Failed to load like state")
		} else {
			resp.Liked = &liked
		}
	}
	c.JSON(http.StatusOK, resp)
}

type createStoryRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Content     string `json:"content" binding:"required,notblank,max=10000"`
	CategoryID  *uint  `json:"categoryId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func (r *createStoryRequest) sanitize() {
	cleanText(&r.Title)
	cleanText(&r.Content)
}

// Create publishes a story for the caller (POST /api/stories).
func (h *StoryHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req createStoryRequest
	if !bindJSON(c, &req) {
		return
	}

	story, err := h.store.CreateStory(c.Request.Context(), store.NewStory{
		Title:       req.Title,
		Content:     req.Content,
		AuthorID:    user.ID,
		CategoryID:  req.CategoryID,
		IsAnonymous: req.IsAnonymous,
	})
	if errors.Is(err, store.ErrNotFound) {
		abortField(c, "categoryId", "Category not found")
		return
	}
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}

	h.log.WithFields(logrus.Fields{"story_id": story.ID, "user_id": user.ID}).Info("Story created")
	c.JSON(http.StatusCreated, presentStory(*story, user))
}

// Delete removes a story and everything hanging off it. Only the author or
// an admin may do so (DELETE /api/stories/:id).
func (h *StoryHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	story, err := h.store.GetStory(ctx, id)
	if err != nil {
		respondStoreError(c, h.log, err, "Story not found")
		return
	}
	if story.AuthorID != user.ID && !user.IsAdmin() {
		abortError(c, http.StatusForbidden, "You can only delete your own stories")
		return
	}

	if err := h.store.DeleteStory(ctx, id); err != nil {
		respondStoreError(c, h.log, err, "Story not found")
		return
	}
	h.log.WithFields(logrus.Fields{"story_id": id, "user_id": user.ID}).Info("Story deleted")
	c.Status(http.StatusNoContent)
}
