package handlers

import (
	"net/http"

	"storyhub/internal/auth"

	"github.com/gin-gonic/gin"
)

// GitHubLogin redirects to GitHub's consent page (GET /api/auth/github).
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	if h.github == nil {
		abortError(c, http.StatusNotFound, "GitHub login is not configured")
		return
	}
	target, err := h.github.BeginURL(c)
	if err != nil {
		respondStoreError(c, h.log, err, "")
		return
	}
	c.Redirect(http.StatusFound, target)
}

// GitHubCallback finishes the flow, logs the matching user in and sends the
// browser home (GET /api/auth/github/callback). Failures land on /login.
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	if h.github == nil {
		abortError(c, http.StatusNotFound, "GitHub login is not configured")
		return
	}
	profile, err := h.github.Complete(c)
	if err != nil {
		h.log.WithError(err).Warn("GitHub login failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := auth.ResolveGitHubUser(c.Request.Context(), h.store, profile)
	if err != nil {
		h.log.WithError(err).WithField("github_id", profile.ID).Error("Failed to resolve GitHub user")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err := auth.Login(c, user.ID); err != nil {
		h.log.WithError(err).Error("Failed to save session")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, "/")
}
