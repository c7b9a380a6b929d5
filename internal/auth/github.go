package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storyhub/internal/config"
	"storyhub/internal/models"
	"storyhub/internal/store"
	"storyhub/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var ErrInvalidState = errors.New("invalid oauth state")

const githubAPI = "https://api.github.com"

// GitHubProfile is the subset of the GitHub user the service keeps.
type GitHubProfile struct {
	ID        string
	Login     string
	Email     string
	AvatarURL string
}

// GitHub runs the authorization code flow against github.com.
type GitHub struct {
	oauth   *oauth2.Config
	apiBase string
}

func NewGitHub(cfg config.GitHubConfig, siteURL string) *GitHub {
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  siteURL + "/api/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: githubAPI,
	}
}

// generateStateToken returns a random state token.
func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// BeginURL stores a fresh state in the session and returns the GitHub
// consent URL to redirect to.
func (g *GitHub) BeginURL(c *gin.Context) (string, error) {
	state, err := generateStateToken()
	if err != nil {
		return "", err
	}
	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	if err := session.Save(); err != nil {
		return "", err
	}
	return g.oauth.AuthCodeURL(state), nil
}

// Complete checks the callback state, exchanges the code and fetches the
// GitHub profile.
func (g *GitHub) Complete(c *gin.Context) (*GitHubProfile, error) {
	session := sessions.Default(c)
	saved, _ := session.Get(sessionKeyState).(string)
	session.Delete(sessionKeyState)
	if err := session.Save(); err != nil {
		return nil, err
	}
	if saved == "" || c.Query("state") != saved {
		return nil, ErrInvalidState
	}

	code := c.Query("code")
	if code == "" {
		return nil, fmt.Errorf("missing authorization code: %w", ErrInvalidState)
	}
	ctx := c.Request.Context()
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return g.fetchProfile(ctx, g.oauth.Client(ctx, token))
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) fetchProfile(ctx context.Context, client *http.Client) (*GitHubProfile, error) {
	var u githubUser
	if err := getJSON(ctx, client, g.apiBase+"/user", &u); err != nil {
		return nil, err
	}
	profile := &GitHubProfile{
		ID:        strconv.FormatInt(u.ID, 10),
		Login:     u.Login,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}

	// private emails are only listed by /user/emails
	if profile.Email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, g.apiBase+"/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					profile.Email = e.Email
					break
				}
			}
		}
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// GitHubUsers is the part of the store federated login needs.
type GitHubUsers interface {
	GetUserByGithubID(ctx context.Context, githubID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	LinkGithub(ctx context.Context, id, githubID string) error
	AvailableUsername(ctx context.Context, base string) (string, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// ResolveGitHubUser maps a GitHub profile to a local user: by GitHub id, then
// by email (linking the account), else a new password-less user.
func ResolveGitHubUser(ctx context.Context, users GitHubUsers, p *GitHubProfile) (*models.User, error) {
	user, err := users.GetUserByGithubID(ctx, p.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if p.Email != "" {
		user, err = users.GetUserByEmail(ctx, p.Email)
		switch {
		case err == nil:
			if err := users.LinkGithub(ctx, user.ID, p.ID); err != nil {
				return nil, err
			}
			user.GithubID = &p.ID
			return user, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	username, err := users.AvailableUsername(ctx, utils.UsernameBase(p.Login, p.Email))
	if err != nil {
		return nil, err
	}
	githubID := p.ID
	user = &models.User{
		Username:        username,
		GithubID:        &githubID,
		ProfileImageURL: p.AvatarURL,
	}
	if p.Email != "" {
		email := p.Email
		user.Email = &email
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
