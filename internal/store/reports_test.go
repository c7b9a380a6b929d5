package store

import (
	"context"
	"testing"

	"storyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReportRequiresExistingTarget(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	_, err := s.CreateReport(ctx, alice.ID, models.StoryTarget(5), "missing story")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.CreateReport(ctx, alice.ID, models.CommentTarget(5), "missing comment")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateReport(ctx, alice.ID, models.ReportTarget{Kind: "user", ID: 1}, "bad kind")
	assert.Error(t, err)
}

func TestGetReportsAttachesTargets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	story := mustStory(t, s, alice, "Reported")
	comment, err := s.CreateComment(ctx, story.ID, alice.ID, "mean")
	require.NoError(t, err)

	_, err = s.CreateReport(ctx, bob.ID, models.StoryTarget(story.ID), "off topic")
	require.NoError(t, err)
	second, err := s.CreateReport(ctx, bob.ID, models.CommentTarget(comment.ID), "harassment")
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, second.Status)

	reports, err := s.GetReports(ctx, "")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, models.TargetComment, reports[0].Target.Kind)
	require.NotNil(t, reports[0].Comment)
	assert.Equal(t, "mean", reports[0].Comment.Content)
	assert.Nil(t, reports[0].Story)

	assert.Equal(t, models.TargetStory, reports[1].Target.Kind)
	require.NotNil(t, reports[1].Story)
	assert.Equal(t, "Reported", reports[1].Story.Title)
	require.NotNil(t, reports[1].Reporter)
	assert.Equal(t, "bob", reports[1].Reporter.Username)
}

func TestUpdateReportStatusIsMonotonic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	story := mustStory(t, s, alice, "Reported")
	report, err := s.CreateReport(ctx, alice.ID, models.StoryTarget(story.ID), "needs review")
	require.NoError(t, err)

	_, err = s.UpdateReportStatus(ctx, report.ID, models.ReportPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	resolved, err := s.UpdateReportStatus(ctx, report.ID, models.ReportResolved)
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, resolved.Status)

	_, err = s.UpdateReportStatus(ctx, report.ID, models.ReportDismissed)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := s.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, got.Status)

	_, err = s.UpdateReportStatus(ctx, 999, models.ReportResolved)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := s.GetReports(ctx, models.ReportPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
