package models

import (
	"fmt"
	"time"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Terminal reports no longer accept status changes.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

type TargetKind string

const (
	TargetStory   TargetKind = "story"
	TargetComment TargetKind = "comment"
)

// ReportTarget is the reported item: exactly one story or one comment.
type ReportTarget struct {
	Kind TargetKind `gorm:"column:target_type;size:20;not null;index:idx_report_target" json:"type"`
	ID   uint       `gorm:"column:target_id;not null;index:idx_report_target" json:"id"`
}

func StoryTarget(id uint) ReportTarget {
	return ReportTarget{Kind: TargetStory, ID: id}
}

func CommentTarget(id uint) ReportTarget {
	return ReportTarget{Kind: TargetComment, ID: id}
}

func (t ReportTarget) Validate() error {
	if t.Kind != TargetStory && t.Kind != TargetComment {
		return fmt.Errorf("unknown report target %q", t.Kind)
	}
	if t.ID == 0 {
		return fmt.Errorf("report target %s has no id", t.Kind)
	}
	return nil
}

type Report struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ReporterID string       `gorm:"size:36;not null;index" json:"reporterId"`
	Reporter   *User        `gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reporter,omitempty"`
	Target     ReportTarget `gorm:"embedded" json:"target"`
	Reason     string       `gorm:"size:500;not null" json:"reason"`
	Status     ReportStatus `gorm:"size:20;default:'pending';not null;index" json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`

	// Filled on listing, not stored
	Story   *Story   `gorm:"-" json:"story"`
	Comment *Comment `gorm:"-" json:"comment,omitempty"`
}
