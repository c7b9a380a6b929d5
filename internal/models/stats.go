package models

type AdminStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalStories   int64 `json:"totalStories"`
	TotalComments  int64 `json:"totalComments"`
	TotalReports   int64 `json:"totalReports"`
	PremiumUsers   int64 `json:"premiumUsers"`
	PendingReports int64 `json:"pendingReports"`
}
