package store

import (
	"context"
	"fmt"

	"storyhub/internal/models"

	"gorm.io/gorm"
)

func (s *Store) GetComments(ctx context.Context, storyID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.conn(ctx).Preload("Author").
		Where("story_id = ?", storyID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments of story %d: %w", storyID, err)
	}
	return comments, nil
}

func (s *Store) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.conn(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("comment %d", id))
	}
	return &comment, nil
}

// CreateComment inserts the comment and bumps the parent's comments_count in
// one transaction, so callers see the new count as soon as this returns.
func (s *Store) CreateComment(ctx context.Context, storyID uint, authorID, content string) (*models.Comment, error) {
	comment := models.Comment{
		Content:  content,
		AuthorID: authorID,
		StoryID:  storyID,
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("update comments_count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("story %d: %w", storyID, ErrNotFound)
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, translate(err, "create comment")
	}
	return s.GetComment(ctx, comment.ID)
}
