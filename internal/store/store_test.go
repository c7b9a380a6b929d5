package store

import (
	"context"
	"fmt"
	"testing"

	"storyhub/internal/db"
	"storyhub/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.Open(db.DriverSQLite, "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(gdb)
}

func mustUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x"}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func mustStory(t *testing.T, s *Store, author *models.User, title string) *models.Story {
	t.Helper()
	story, err := s.CreateStory(context.Background(), NewStory{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: author.ID,
	})
	require.NoError(t, err)
	return story
}

func mustCategory(t *testing.T, s *Store, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: fmt.Sprintf("cat-%s", name)}
	require.NoError(t, s.CreateCategory(context.Background(), category))
	return category
}
