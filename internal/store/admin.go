package store

import (
	"context"
	"fmt"

	"storyhub/internal/models"
)

// GetAdminStats counts rows; nothing is cached.
func (s *Store) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	db := s.conn(ctx)

	counts := []struct {
		name  string
		model interface{}
		where []interface{}
		dst   *int64
	}{
		{"users", &models.User{}, nil, &stats.TotalUsers},
		{"stories", &models.Story{}, nil, &stats.TotalStories},
		{"comments", &models.Comment{}, nil, &stats.TotalComments},
		{"reports", &models.Report{}, nil, &stats.TotalReports},
		{"premium users", &models.User{}, []interface{}{"is_premium = ?", true}, &stats.PremiumUsers},
		{"pending reports", &models.Report{}, []interface{}{"status = ?", models.ReportPending}, &stats.PendingReports},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return &stats, nil
}
