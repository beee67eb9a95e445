package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateFollow(ctx context.Context, follow *model.Follow) error {
	if err := s.conn(ctx).Create(follow).Error; err != nil {
		return errors.Wrapf(err, "fail to create follow %s", follow.Id)
	}
	return nil
}

func (s *GormStore) GetFollow(ctx context.Context, id string) (*model.Follow, error) {
	var follow model.Follow
	if err := s.conn(ctx).Where("id = ?", id).First(&follow).Error; err != nil {
		return nil, lookupError(err, "follow %s", id)
	}
	return &follow, nil
}

func (s *GormStore) FindFollow(ctx context.Context, srcUserId, dstUserId string) (*model.Follow, error) {
	var follow model.Follow
	if err := s.conn(ctx).
		Where("src_user_id = ? AND dst_user_id = ?", srcUserId, dstUserId).
		First(&follow).Error; err != nil {
		return nil, lookupError(err, "follow %s -> %s", srcUserId, dstUserId)
	}
	return &follow, nil
}

func (s *GormStore) DeleteFollow(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Follow{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete follow %s", id)
	}
	return nil
}

func (s *GormStore) ListFollowing(ctx context.Context, srcUserId string) ([]*model.Follow, error) {
	var follows []*model.Follow
	if err := s.conn(ctx).
		Where("src_user_id = ?", srcUserId).
		Order("created_at, id").
		Find(&follows).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list following of user %s", srcUserId)
	}
	return follows, nil
}

func (s *GormStore) ListFollowers(ctx context.Context, dstUserId string) ([]*model.Follow, error) {
	var follows []*model.Follow
	if err := s.conn(ctx).
		Where("dst_user_id = ?", dstUserId).
		Order("created_at, id").
		Find(&follows).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list followers of user %s", dstUserId)
	}
	return follows, nil
}
