package models

import (
	"time"
)

type Story struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AuthorID      string    `gorm:"size:36;not null;index" json:"authorId"`
	Author        *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	CategoryID    *uint     `gorm:"index" json:"categoryId"`
	Category      *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	IsAnonymous   bool      `gorm:"default:false;not null" json:"isAnonymous"`
	IsHighlight   bool      `gorm:"default:false;not null;index" json:"isHighlight"` // editorial / premium promotion
	LikesCount    int       `gorm:"default:0;not null" json:"likesCount"`            // == count(likes)
	CommentsCount int       `gorm:"default:0;not null" json:"commentsCount"`         // == count(comments)
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}
