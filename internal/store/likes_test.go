package store

import (
	"context"
	"sync"
	"testing"

	"storyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	story := mustStory(t, s, alice, "Likeable")

	first, err := s.ToggleLike(ctx, alice.ID, story.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 1}, first)

	liked, err := s.HasLiked(ctx, alice.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	second, err := s.ToggleLike(ctx, alice.ID, story.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, LikesCount: 0}, second)

	liked, err = s.HasLiked(ctx, alice.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLikeMissingStory(t *testing.T) {
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")

	_, err := s.ToggleLike(context.Background(), alice.ID, 12345)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, s.DB().Table("likes").Count(&n).Error)
	assert.Zero(t, n)
}

func TestToggleLikeConcurrentUsersKeepCountInStep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author")
	story := mustStory(t, s, author, "Popular")

	const users = 8
	ids := make([]string, users)
	for i := range ids {
		ids[i] = mustUser(t, s, "fan"+string(rune('a'+i))).ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := s.ToggleLike(ctx, userID, story.ID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	got, err := s.GetStory(ctx, story.ID)
	require.NoError(t, err)
	var rows int64
	require.NoError(t, s.DB().Table("likes").Where("story_id = ?", story.ID).Count(&rows).Error)
	assert.Equal(t, int64(users), rows)
	assert.Equal(t, users, got.LikesCount)
}

func TestToggleLikeSameUserConcurrentlyNeverDrifts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	story := mustStory(t, s, alice, "Contested")

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleLike(ctx, alice.ID, story.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetStory(ctx, story.ID)
	require.NoError(t, err)
	var rows int64
	require.NoError(t, s.DB().Table("likes").Where("story_id = ?", story.ID).Count(&rows).Error)
	assert.Equal(t, int(rows), got.LikesCount)
	assert.Zero(t, got.LikesCount, "an even number of toggles leaves the story unliked")
}

// raceLikeInserts makes the next `times` like inserts lose to an identical row
// written just before them in the same transaction, as a concurrent request
// would. It returns a pointer to the number of like inserts attempted.
func raceLikeInserts(t *testing.T, s *Store, times int) *int {
	t.Helper()
	var attempts, injecting int
	err := s.DB().Callback().Create().Before("gorm:create").Register("test:rival_like", func(tx *gorm.DB) {
		like, ok := tx.Statement.Model.(*models.Like)
		if !ok || injecting > 0 {
			return
		}
		attempts++
		if attempts > times {
			return
		}
		injecting++
		defer func() { injecting-- }()
		rival := &models.Like{UserID: like.UserID, StoryID: like.StoryID}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(rival).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)
	return &attempts
}

func TestToggleLikeRetriesAfterLosingInsertRace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	story := mustStory(t, s, alice, "Raced")
	attempts := raceLikeInserts(t, s, 1)

	res, err := s.ToggleLike(ctx, alice.ID, story.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *attempts)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 1}, res)

	got, err := s.GetStory(ctx, story.ID)
	require.NoError(t, err)
	var rows int64
	require.NoError(t, s.DB().Table("likes").Where("story_id = ?", story.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, int(rows), got.LikesCount)
}

func TestToggleLikeGivesUpAfterRepeatedRaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	story := mustStory(t, s, alice, "Hot")
	attempts := raceLikeInserts(t, s, toggleAttempts)

	_, err := s.ToggleLike(ctx, alice.ID, story.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, toggleAttempts, *attempts)

	got, err := s.GetStory(ctx, story.ID)
	require.NoError(t, err)
	var rows int64
	require.NoError(t, s.DB().Table("likes").Where("story_id = ?", story.ID).Count(&rows).Error)
	assert.Zero(t, rows)
	assert.Zero(t, got.LikesCount)
}
