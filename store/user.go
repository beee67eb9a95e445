package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return errors.Wrapf(err, "fail to create user %s", user.Id)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, lookupError(err, "user %s", id)
	}
	return &user, nil
}

// GetUserByUsername matches usernames case-insensitively.
func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&user).Error; err != nil {
		return nil, lookupError(err, "user %s", username)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := s.conn(ctx).Order("created_at desc, id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list users")
	}
	return users, nil
}

func (s *GormStore) SetUserCredibility(ctx context.Context, id string, enabled bool, score *float64) error {
	res := s.conn(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credibility_enabled": enabled,
			"credibility_score":   score,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to update credibility of user %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "user %s", id)
	}
	return nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.User{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete user %s", id)
	}
	return nil
}
