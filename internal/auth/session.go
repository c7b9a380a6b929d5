package auth

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/postgres"
	"github.com/gin-gonic/gin"
)

const (
	SessionName      = "storyhub_session"
	SessionKeyUserID = "user_id"
	sessionKeyState  = "oauth_state"
	sessionMaxAge    = 30 * 24 * 60 * 60
)

// NewSessionStore returns the postgres-backed store when usePostgres is set
// and db is available, the signed cookie store otherwise.
func NewSessionStore(secret string, usePostgres bool, db *sql.DB, secure bool) (sessions.Store, error) {
	var st sessions.Store
	if usePostgres && db != nil {
		pg, err := postgres.NewStore(db, []byte(secret))
		if err != nil {
			return nil, fmt.Errorf("postgres session store: %w", err)
		}
		st = pg
	} else {
		st = cookie.NewStore([]byte(secret))
	}
	st.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return st, nil
}

// Login binds the session to userID.
func Login(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Set(SessionKeyUserID, userID)
	return session.Save()
}

func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// SessionUserID returns the id bound to the session, or "".
func SessionUserID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(SessionKeyUserID).(string)
	return id
}
