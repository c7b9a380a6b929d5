package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"storyhub/internal/models"
	"storyhub/internal/store"
	"storyhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func abortError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

func abortField(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: message, Field: field})
}

// respondStoreError maps store sentinels onto HTTP statuses. Anything
// unexpected is logged and answered with 500.
func respondStoreError(c *gin.Context, log logrus.FieldLogger, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		abortError(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrConflict):
		abortError(c, http.StatusConflict, "Conflicting update, the resource changed state")
	case errors.Is(err, store.ErrDuplicate):
		abortError(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, store.ErrInvalidStatus):
		abortError(c, http.StatusBadRequest, "Invalid status")
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, "Internal server error")
	}
}

var registerOnce sync.Once

// RegisterValidators reports json field names in validation errors and adds
// the notblank rule to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// validationMessage turns the first failed rule into a readable sentence.
func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param() + unit
	case "max":
		return field + " must be at most " + fe.Param() + unit
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "alphanum":
		return field + " may only contain letters and digits"
	}
	return field + " is invalid"
}

func abortValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		abortField(c, verrs[0].Field(), validationMessage(verrs[0]))
		return
	}
	abortError(c, http.StatusBadRequest, "Invalid request body")
}

// sanitizer is implemented by request bodies holding free text.
type sanitizer interface {
	sanitize()
}

// bindJSON decodes and validates the body. Bodies implementing sanitizer are
// trimmed and validated again, so length limits apply to the text that is
// actually stored. Markup is kept as typed; RenderMarkdown sanitises on output.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortValidation(c, err)
		return false
	}
	if s, ok := dst.(sanitizer); ok {
		s.sanitize()
		if err := binding.Validator.ValidateStruct(dst); err != nil {
			abortValidation(c, err)
			return false
		}
	}
	return true
}

// idParam parses a positive numeric route parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		abortField(c, name, "Invalid id")
		return 0, false
	}
	return id, true
}

func cleanText(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

// PublicUser is how other people see an account.
type PublicUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl"`
	Role            string `json:"role"`
	IsPremium       bool   `json:"isPremium"`
}

func publicUser(u *models.User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		Bio:             u.Bio,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		IsPremium:       u.IsPremium,
	}
}

// anonymousAuthor replaces the author of anonymous stories.
var anonymousAuthor = gin.H{"username": "Anonymous"}

// StoryResponse is a story as sent to a particular viewer.
type StoryResponse struct {
	models.Story
	Author      interface{} `json:"author"`
	ContentHTML string      `json:"contentHtml,omitempty"`
	Liked       *bool       `json:"liked,omitempty"`
}

// canSeeAuthor reports whether viewer may learn who wrote story.
func canSeeAuthor(story *models.Story, viewer *models.User) bool {
	if !story.IsAnonymous {
		return true
	}
	return viewer != nil && (viewer.ID == story.AuthorID || viewer.IsAdmin())
}

func presentStory(story models.Story, viewer *models.User) StoryResponse {
	resp := StoryResponse{Story: story}
	if canSeeAuthor(&story, viewer) {
		resp.Author = publicUser(story.Author)
	} else {
		resp.Author = anonymousAuthor
		resp.Story.AuthorID = ""
	}
	resp.Story.Author = nil
	return resp
}

func presentStories(stories []models.Story, viewer *models.User) []StoryResponse {
	out := make([]StoryResponse, 0, len(stories))
	for _, s := range stories {
		out = append(out, presentStory(s, viewer))
	}
	return out
}

// CommentResponse carries the author's public view.
type CommentResponse struct {
	models.Comment
	Author *PublicUser `json:"author"`
}

func presentComments(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, CommentResponse{Comment: cm, Author: publicUser(cm.Author)})
	}
	return out
}
