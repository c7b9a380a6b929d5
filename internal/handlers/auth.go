package handlers

import (
	"errors"
	"net/http"

	"storyhub/internal/auth"
	"storyhub/internal/models"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	store  *store.Store
	github *auth.GitHub
	log    logrus.FieldLogger
}

// NewAuthHandler takes a nil github when GitHub login is disabled.
func NewAuthHandler(st *store.Store, github *auth.GitHub, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{store: st, github: github, log: log}
}

type registerRequest struct {
	Username string  `json:"username" binding:"required,notblank,min=3,max=64"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
}

func (r *registerRequest) sanitize() {
	cleanText(&r.Username)
}

// Register creates a local account and logs it in (POST /api/register).
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.GetUserByUsername(ctx, req.Username); err == nil {
		abortField(c, "username", "Username already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, h.log, err, "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	user := &models.User{Username: req.Username, Password: hash, Email: req.Email}
	if err := h.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			abortField(c, "username", "Username or email already exists")
			return
		}
		respondStoreError(c, h.log, err, "")
		return
	}

	if err := auth.Login(c, user.ID); err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	h.log.WithField("user_id", user.ID).Info("User registered")
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and binds the session (POST /api/login).
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := auth.Authenticate(c.Request.Context(), h.store, req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		abortError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	if err := auth.Login(c, user.ID); err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout ends the session (POST /api/logout).
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	c.Status(http.StatusOK)
}
