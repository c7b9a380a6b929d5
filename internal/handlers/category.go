package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"storyhub/internal/cache"
	"storyhub/internal/models"
	"storyhub/internal/store"
	"storyhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = 10 * time.Minute
)

type CategoryHandler struct {
	store *store.Store
	cache cache.Cache
	log   logrus.FieldLogger
}

func NewCategoryHandler(st *store.Store, c cache.Cache, log logrus.FieldLogger) *CategoryHandler {
	return &CategoryHandler{store: st, cache: c, log: log}
}

// List serves all categories, from cache when possible.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if cached, ok, err := h.cache.Get(ctx, categoriesCacheKey); err != nil {
		h.log.WithError(err).Warn("Category cache read failed")
	} else if ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	categories, err := h.store.GetCategories(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to load categories")
		c.JSON(http.StatusOK, []models.Category{})
		return
	}
	body, err := json.Marshal(categories)
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	if err := h.cache.Set(ctx, categoriesCacheKey, body, categoriesCacheTTL); err != nil {
		h.log.WithError(err).Warn("Category cache write failed")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Slug        string `json:"slug" binding:"max=100"`
	Description string `json:"description" binding:"max=1000"`
}

func (r *createCategoryRequest) sanitize() {
	cleanText(&r.Name)
	cleanText(&r.Description)
	if r.Slug == "" {
		r.Slug = r.Name
	}
	r.Slug = utils.Slugify(r.Slug)
}

// Create adds a category (admin only) and drops the cached list.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Slug == "" {
		abortField(c, "slug", "slug must contain letters or digits")
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
	ctx := c.Request.Context()
	if err := h.store.CreateCategory(ctx, &category); err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	if err := h.cache.Delete(ctx, categoriesCacheKey); err != nil {
		h.log.WithError(err).Warn("Category cache invalidation failed")
	}
	c.JSON(http.StatusCreated, category)
}
