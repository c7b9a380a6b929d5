package store

import (
	"context"
	"fmt"
	"strings"

	"storyhub/internal/models"

	"github.com/google/uuid"
)

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user "+id)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "user "+username)
	}
	return &user, nil
}

func (s *Store) GetUserByGithubID(ctx context.Context, githubID string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("github_id = ?", githubID).First(&user).Error; err != nil {
		return nil, translate(err, "github user "+githubID)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user with email")
	}
	return &user, nil
}

// CreateUser assigns an id and default role when missing. A taken username or
// email yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return translate(s.conn(ctx).Create(user).Error, "create user "+user.Username)
}

// ProfileUpdate carries the user-editable fields; nil means unchanged.
type ProfileUpdate struct {
	Username *string
	Bio      *string
}

func (s *Store) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	updates := make(map[string]interface{})
	if in.Username != nil {
		updates["username"] = *in.Username
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	return s.updateUser(ctx, id, updates)
}

// AdminUserUpdate carries the fields only administrators may change.
type AdminUserUpdate struct {
	Role      *string
	IsPremium *bool
}

func (s *Store) UpdateUserAdmin(ctx context.Context, id string, in AdminUserUpdate) (*models.User, error) {
	updates := make(map[string]interface{})
	if in.Role != nil {
		if *in.Role != models.RoleUser && *in.Role != models.RoleAdmin {
			return nil, fmt.Errorf("role %q: %w", *in.Role, ErrInvalidStatus)
		}
		updates["role"] = *in.Role
	}
	if in.IsPremium != nil {
		updates["is_premium"] = *in.IsPremium
	}
	return s.updateUser(ctx, id, updates)
}

func (s *Store) SetProfileImage(ctx context.Context, id, url string) (*models.User, error) {
	return s.updateUser(ctx, id, map[string]interface{}{"profile_image_url": url})
}

func (s *Store) updateUser(ctx context.Context, id string, updates map[string]interface{}) (*models.User, error) {
	if len(updates) > 0 {
		res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error, "update user "+id)
		}
	}
	return s.GetUser(ctx, id)
}

// LinkGithub attaches a GitHub account to an existing user.
func (s *Store) LinkGithub(ctx context.Context, id, githubID string) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("github_id", githubID)
	if res.Error != nil {
		return translate(res.Error, "link github")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// AvailableUsername returns base, or base with a numeric suffix when taken.
func (s *Store) AvailableUsername(ctx context.Context, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "storyteller"
	}
	candidate := base
	for i := 2; i < 1000; i++ {
		var count int64
		if err := s.conn(ctx).Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("username %s: %w", base, ErrDuplicate)
}
