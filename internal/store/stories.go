package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"storyhub/internal/models"

	"gorm.io/gorm"
)

type SortMode string

const (
	SortLatest    SortMode = "latest"
	SortTrending  SortMode = "trending"
	SortHighlight SortMode = "highlight"
)

// ParseSort accepts the query value; the empty string means latest.
func ParseSort(v string) (SortMode, bool) {
	switch SortMode(v) {
	case "", SortLatest:
		return SortLatest, true
	case SortTrending:
		return SortTrending, true
	case SortHighlight:
		return SortHighlight, true
	}
	return "", false
}

// orderClause keeps every mode total: the trailing created_at/id keys break
// whatever ties the primary keys leave.
func (m SortMode) orderClause() string {
	switch m {
	case SortTrending:
		return "likes_count DESC, comments_count DESC, created_at DESC, id DESC"
	case SortHighlight:
		return "is_highlight DESC, created_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

type StoryFilter struct {
	CategoryID uint   // 0 = any
	Search     string // case-insensitive substring of the title
	Sort       SortMode
	Limit      int // 0 = no limit
}

func (s *Store) withStoryRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("Category")
}

// GetStories is the feed query.
func (s *Store) GetStories(ctx context.Context, f StoryFilter) ([]models.Story, error) {
	q := s.withStoryRelations(s.conn(ctx).Model(&models.Story{}))
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(search))+"%")
	}
	q = q.Order(f.Sort.orderClause())
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	stories := make([]models.Story, 0)
	if err := q.Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// '!' works as an escape character on postgres, mysql and sqlite alike.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *Store) GetStory(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := s.withStoryRelations(s.conn(ctx)).Where("id = ?", id).First(&story).Error; err != nil {
		return nil, translate(err, "story "+strconv.FormatUint(uint64(id), 10))
	}
	return &story, nil
}

// ListStoriesByAuthor returns an author's stories newest first. Anonymous
// stories are left out unless includeAnonymous is set.
func (s *Store) ListStoriesByAuthor(ctx context.Context, authorID string, includeAnonymous bool) ([]models.Story, error) {
	q := s.withStoryRelations(s.conn(ctx)).Where("author_id = ?", authorID)
	if !includeAnonymous {
		q = q.Where("is_anonymous = ?", false)
	}
	stories := make([]models.Story, 0)
	if err := q.Order(SortLatest.orderClause()).Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list stories of %s: %w", authorID, err)
	}
	return stories, nil
}

type NewStory struct {
	Title       string
	Content     string
	AuthorID    string
	CategoryID  *uint
	IsAnonymous bool
}

// CreateStory inserts a fresh story with zeroed counters. An unknown category
// yields ErrNotFound.
func (s *Store) CreateStory(ctx context.Context, in NewStory) (*models.Story, error) {
	story := models.Story{
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
		IsAnonymous: in.IsAnonymous,
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CategoryID != nil {
			var count int64
			if err := tx.Model(&models.Category{}).Where("id = ?", *in.CategoryID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("category %d: %w", *in.CategoryID, ErrNotFound)
			}
		}
		return tx.Create(&story).Error
	})
	if err != nil {
		return nil, translate(err, "create story")
	}
	return s.GetStory(ctx, story.ID)
}

// DeleteStory removes the story with its likes, comments and the reports that
// point at either, all in one transaction.
func (s *Store) DeleteStory(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("story_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", models.TargetComment, commentIDs).
			Delete(&models.Report{}).Error; err != nil {
			return fmt.Errorf("delete comment reports: %w", err)
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetStory, id).
			Delete(&models.Report{}).Error; err != nil {
			return fmt.Errorf("delete story reports: %w", err)
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Story{})
		if res.Error != nil {
			return fmt.Errorf("delete story: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("story %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// SetHighlight flips the editorial flag. It is the only in-place edit a story
// accepts besides its counters.
func (s *Store) SetHighlight(ctx context.Context, id uint, highlight bool) (*models.Story, error) {
	res := s.conn(ctx).Model(&models.Story{}).Where("id = ?", id).UpdateColumn("is_highlight", highlight)
	if res.Error != nil {
		return nil, fmt.Errorf("highlight story %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 when the value did not change
		if _, err := s.GetStory(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.GetStory(ctx, id)
}
