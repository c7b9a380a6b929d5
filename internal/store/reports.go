package store

import (
	"context"
	"fmt"

	"storyhub/internal/models"

	"gorm.io/gorm"
)

// CreateReport files a pending report. The target must exist.
func (s *Store) CreateReport(ctx context.Context, reporterID string, target models.ReportTarget, reason string) (*models.Report, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	var table interface{} = &models.Story{}
	if target.Kind == models.TargetComment {
		table = &models.Comment{}
	}
	var count int64
	if err := s.conn(ctx).Model(table).Where("id = ?", target.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lookup report target: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%s %d: %w", target.Kind, target.ID, ErrNotFound)
	}

	report := models.Report{
		ReporterID: reporterID,
		Target:     target,
		Reason:     reason,
		Status:     models.ReportPending,
	}
	if err := s.conn(ctx).Create(&report).Error; err != nil {
		return nil, translate(err, "create report")
	}
	return &report, nil
}

// GetReports lists reports newest first with reporter and reported item
// attached. An empty status lists all of them.
func (s *Store) GetReports(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	q := s.conn(ctx).Preload("Reporter").Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	reports := make([]models.Report, 0)
	if err := q.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if err := s.attachTargets(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Store) attachTargets(ctx context.Context, reports []models.Report) error {
	var storyIDs, commentIDs []uint
	for _, r := range reports {
		switch r.Target.Kind {
		case models.TargetStory:
			storyIDs = append(storyIDs, r.Target.ID)
		case models.TargetComment:
			commentIDs = append(commentIDs, r.Target.ID)
		}
	}

	storyMap := make(map[uint]*models.Story)
	if len(storyIDs) > 0 {
		var stories []models.Story
		if err := s.conn(ctx).Where("id IN ?", storyIDs).Find(&stories).Error; err != nil {
			return fmt.Errorf("load reported stories: %w", err)
		}
		for i := range stories {
			storyMap[stories[i].ID] = &stories[i]
		}
	}
	commentMap := make(map[uint]*models.Comment)
	if len(commentIDs) > 0 {
		var comments []models.Comment
		if err := s.conn(ctx).Where("id IN ?", commentIDs).Find(&comments).Error; err != nil {
			return fmt.Errorf("load reported comments: %w", err)
		}
		for i := range comments {
			commentMap[comments[i].ID] = &comments[i]
		}
	}

	for i := range reports {
		switch reports[i].Target.Kind {
		case models.TargetStory:
			reports[i].Story = storyMap[reports[i].Target.ID]
		case models.TargetComment:
			reports[i].Comment = commentMap[reports[i].Target.ID]
		}
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := s.conn(ctx).Preload("Reporter").Where("id = ?", id).First(&report).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("report %d", id))
	}
	return &report, nil
}

// UpdateReportStatus moves a pending report to resolved or dismissed. Reports
// that already left pending are rejected with ErrConflict; the conditional
// update keeps two concurrent resolutions from both succeeding.
func (s *Store) UpdateReportStatus(ctx context.Context, id uint, status models.ReportStatus) (*models.Report, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("report status %q: %w", status, ErrInvalidStatus)
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Report
		if err := tx.Select("id", "status").Where("id = ?", id).First(&current).Error; err != nil {
			return translate(err, fmt.Sprintf("report %d", id))
		}
		if current.Status != models.ReportPending {
			return fmt.Errorf("report %d is %s: %w", id, current.Status, ErrConflict)
		}

		res := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", id, models.ReportPending).
			UpdateColumn("status", status)
		if res.Error != nil {
			return fmt.Errorf("update report %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("report %d changed concurrently: %w", id, ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetReport(ctx, id)
}
