package models

import (
	"time"
)

// Like marks a user's like on a story. Existence of the row is the liked state;
// (UserID, StoryID) is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_like_user_story" json:"userId"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	StoryID   uint      `gorm:"not null;index;uniqueIndex:idx_like_user_story" json:"storyId"`
	Story     *Story    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
