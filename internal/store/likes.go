package store

import (
	"context"
	"errors"
	"fmt"

	"storyhub/internal/models"

	"gorm.io/gorm"
)

// toggleAttempts bounds the retries after losing an insert race on the
// (user, story) unique index.
const toggleAttempts = 3

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

func (s *Store) HasLiked(ctx context.Context, userID string, storyID uint) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Like{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lookup like: %w", err)
	}
	return count > 0, nil
}

// ToggleLike removes the caller's like when present and adds it otherwise,
// moving likes_count by exactly one in the same transaction. When a concurrent
// request inserts the same like first, the unique index rejects ours, the
// transaction rolls back and the retry sees the row and deletes it.
func (s *Store) ToggleLike(ctx context.Context, userID string, storyID uint) (LikeResult, error) {
	var (
		result LikeResult
		err    error
	)
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		result, err = s.toggleLikeOnce(ctx, userID, storyID)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return LikeResult{}, fmt.Errorf("toggle like on story %d: %w", storyID, ErrConflict)
	}
	return result, err
}

func (s *Store) toggleLikeOnce(ctx context.Context, userID string, storyID uint) (LikeResult, error) {
	var result LikeResult
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var story models.Story
		if err := tx.Select("id").Where("id = ?", storyID).First(&story).Error; err != nil {
			return translate(err, fmt.Sprintf("story %d", storyID))
		}

		// Deleting first doubles as the existence check and cannot race with itself.
		res := tx.Where("user_id = ? AND story_id = ?", userID, storyID).Delete(&models.Like{})
		if res.Error != nil {
			return fmt.Errorf("delete like: %w", res.Error)
		}

		delta := -1
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.Like{UserID: userID, StoryID: storyID}).Error; err != nil {
				return err
			}
			delta = 1
		}

		if err := tx.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error; err != nil {
			return fmt.Errorf("update likes_count: %w", err)
		}

		if err := tx.Model(&models.Story{}).Select("likes_count").Where("id = ?", storyID).
			Scan(&result.LikesCount).Error; err != nil {
			return fmt.Errorf("read likes_count: %w", err)
		}
		result.Liked = delta > 0
		return nil
	})
	return result, err
}
