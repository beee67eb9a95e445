package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateLike(ctx context.Context, like *model.Like) error {
	if err := s.conn(ctx).Create(like).Error; err != nil {
		return errors.Wrapf(err, "fail to create like %s", like.Id)
	}
	return nil
}

func (s *GormStore) GetLike(ctx context.Context, id string) (*model.Like, error) {
	var like model.Like
	if err := s.conn(ctx).Where("id = ?", id).First(&like).Error; err != nil {
		return nil, lookupError(err, "like %s", id)
	}
	return &like, nil
}

func (s *GormStore) FindLike(ctx context.Context, userId, parentId string) (*model.Like, error) {
	var like model.Like
	if err := s.conn(ctx).
		Where("user_id = ? AND parent_id = ?", userId, parentId).
		First(&like).Error; err != nil {
		return nil, lookupError(err, "like of user %s on %s", userId, parentId)
	}
	return &like, nil
}

func (s *GormStore) DeleteLike(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Like{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete like %s", id)
	}
	return nil
}

func (s *GormStore) ListLikesByUser(ctx context.Context, userId string) ([]*model.Like, error) {
	var likes []*model.Like
	if err := s.conn(ctx).Where("user_id = ?", userId).Order("created_at, id").Find(&likes).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list likes of user %s", userId)
	}
	return likes, nil
}

func (s *GormStore) CreateRefreet(ctx context.Context, refreet *model.Refreet) error {
	if err := s.conn(ctx).Create(refreet).Error; err != nil {
		return errors.Wrapf(err, "fail to create refreet %s", refreet.Id)
	}
	return nil
}

func (s *GormStore) GetRefreet(ctx context.Context, id string) (*model.Refreet, error) {
	var refreet model.Refreet
	if err := s.conn(ctx).Where("id = ?", id).First(&refreet).Error; err != nil {
		return nil, lookupError(err, "refreet %s", id)
	}
	return &refreet, nil
}

func (s *GormStore) FindRefreet(ctx context.Context, userId, parentId string) (*model.Refreet, error) {
	var refreet model.Refreet
	if err := s.conn(ctx).
		Where("user_id = ? AND parent_id = ?", userId, parentId).
		First(&refreet).Error; err != nil {
		return nil, lookupError(err, "refreet of user %s on %s", userId, parentId)
	}
	return &refreet, nil
}

func (s *GormStore) DeleteRefreet(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Refreet{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete refreet %s", id)
	}
	return nil
}

func (s *GormStore) ListRefreetsByUser(ctx context.Context, userId string) ([]*model.Refreet, error) {
	var refreets []*model.Refreet
	if err := s.conn(ctx).Where("user_id = ?", userId).Order("created_at, id").Find(&refreets).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list refreets of user %s", userId)
	}
	return refreets, nil
}
