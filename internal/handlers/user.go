package handlers

import (
	"errors"
	"net/http"

	"storyhub/internal/middleware"
	"storyhub/internal/models"
	"storyhub/internal/services"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxAvatarSize limits avatar uploads to 5 MB.
const maxAvatarSize = 5 << 20

type UserHandler struct {
	store    *store.Store
	uploader services.ImageUploader
	log      logrus.FieldLogger
}

// NewUserHandler takes a nil uploader when object storage is not configured.
func NewUserHandler(st *store.Store, uploader services.ImageUploader, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{store: st, uploader: uploader, log: log}
}

// Me returns the caller's own account, including private fields.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

type updateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,notblank,min=3,max=64"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}

func (r *updateProfileRequest) sanitize() {
	cleanText(r.Username)
	cleanText(r.Bio)
}

// UpdateMe changes the caller's username or bio; every other field is ignored.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.store.UpdateProfile(c.Request.Context(), user.ID, store.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
	})
	if errors.Is(err, store.ErrDuplicate) {
		abortField(c, "username", "Username already exists")
		return
	}
	if err != nil {
		respondStoreError(c, h.log, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ProfileResponse is a user page: the account and its visible stories.
type ProfileResponse struct {
	User    *PublicUser     `json:"user"`
	Stories []StoryResponse `json:"stories"`
}

// Profile serves GET /api/users/:id. Anonymous stories are listed only for
// their author and for admins.
func (h *UserHandler) Profile(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		respondStoreError(c, h.log, err, "User not found")
		return
	}

	viewer := middleware.CurrentUser(c)
	includeAnonymous := viewer != nil && (viewer.ID == user.ID || viewer.IsAdmin())
	stories, err := h.store.ListStoriesByAuthor(ctx, user.ID, includeAnonymous)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("Failed to load user stories")
		stories = []models.Story{}
	}
	c.JSON(http.StatusOK, ProfileResponse{
		User:    publicUser(user),
		Stories: presentStories(stories, viewer),
	})
}

// UploadAvatar stores an image in object storage and points the caller's
// profile at it (POST /api/user/me/avatar).
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if h.uploader == nil {
		abortError(c, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}
	user := middleware.CurrentUser(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		abortField(c, "image", "Please choose an image to upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := services.ImageExtension(contentType); !ok {
		abortField(c, "image", "Only PNG, JPEG, GIF and WebP images are allowed")
		return
	}
	if header.Size > maxAvatarSize {
		abortField(c, "image", "Image must be at most 5 MB")
		return
	}

	ctx := c.Request.Context()
	result, err := h.uploader.UploadImage(ctx, file, header.Size, contentType)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("Avatar upload failed")
		abortError(c, http.StatusBadGateway, "Upload failed")
		return
	}
	updated, err := h.store.SetProfileImage(ctx, user.ID, result.URL)
	if err != nil {
		respondStoreError(c, h.log, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}
