package store

import (
	"context"
	"testing"

	"storyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAdminStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	premium := true
	_, err := s.UpdateUserAdmin(ctx, bob.ID, AdminUserUpdate{IsPremium: &premium})
	require.NoError(t, err)

	story := mustStory(t, s, alice, "One")
	_, err = s.CreateComment(ctx, story.ID, bob.ID, "c1")
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, story.ID, bob.ID, "c2")
	require.NoError(t, err)
	report, err := s.CreateReport(ctx, bob.ID, models.StoryTarget(story.ID), "reason")
	require.NoError(t, err)
	_, err = s.CreateReport(ctx, alice.ID, models.StoryTarget(story.ID), "another")
	require.NoError(t, err)
	_, err = s.UpdateReportStatus(ctx, report.ID, models.ReportDismissed)
	require.NoError(t, err)

	stats, err := s.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AdminStats{
		TotalUsers:     2,
		TotalStories:   1,
		TotalComments:  2,
		TotalReports:   2,
		PremiumUsers:   1,
		PendingReports: 1,
	}, *stats)
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCategory(t, s, "love")
	err := s.CreateCategory(ctx, &models.Category{Name: "love", Slug: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "cat-love", categories[0].Slug)
}
