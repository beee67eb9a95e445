package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"gorm.io/gorm/clause"
)

func (s *GormStore) AddChildRef(ctx context.Context, parentId, childId string, kind model.ChildKind) error {
	ref := model.ChildRef{
		ParentId:  parentId,
		Kind:      kind,
		ChildId:   childId,
		CreatedAt: time.Now(),
	}
	if err := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error; err != nil {
		return errors.Wrapf(err, "fail to attach %s %s to %s", kind, childId, parentId)
	}
	return nil
}

func (s *GormStore) RemoveChildRef(ctx context.Context, parentId, childId string, kind model.ChildKind) error {
	if err := s.conn(ctx).
		Where("parent_id = ? AND kind = ? AND child_id = ?", parentId, kind, childId).
		Delete(&model.ChildRef{}).Error; err != nil {
		return errors.Wrapf(err, "fail to detach %s %s from %s", kind, childId, parentId)
	}
	return nil
}

func (s *GormStore) ListChildIds(ctx context.Context, parentId string, kind model.ChildKind) ([]string, error) {
	var ids []string
	if err := s.conn(ctx).Model(&model.ChildRef{}).
		Where("parent_id = ? AND kind = ?", parentId, kind).
		Order("created_at, child_id").
		Pluck("child_id", &ids).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list %s children of %s", kind, parentId)
	}
	return ids, nil
}

func (s *GormStore) AddUserRef(ctx context.Context, userId, refId string, kind model.UserRefKind) error {
	ref := model.UserRef{
		UserId:    userId,
		Kind:      kind,
		RefId:     refId,
		CreatedAt: time.Now(),
	}
	if err := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error; err != nil {
		return errors.Wrapf(err, "fail to add %s %s to user %s", kind, refId, userId)
	}
	return nil
}

func (s *GormStore) RemoveUserRef(ctx context.Context, userId, refId string, kind model.UserRefKind) error {
	if err := s.conn(ctx).
		Where("user_id = ? AND kind = ? AND ref_id = ?", userId, kind, refId).
		Delete(&model.UserRef{}).Error; err != nil {
		return errors.Wrapf(err, "fail to remove %s %s from user %s", kind, refId, userId)
	}
	return nil
}

func (s *GormStore) ListUserRefIds(ctx context.Context, userId string, kind model.UserRefKind) ([]string, error) {
	var ids []string
	if err := s.conn(ctx).Model(&model.UserRef{}).
		Where("user_id = ? AND kind = ?", userId, kind).
		Order("created_at, ref_id").
		Pluck("ref_id", &ids).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list %s of user %s", kind, userId)
	}
	return ids, nil
}

func (s *GormStore) DeleteUserRefs(ctx context.Context, userId string) error {
	if err := s.conn(ctx).Where("user_id = ?", userId).Delete(&model.UserRef{}).Error; err != nil {
		return errors.Wrapf(err, "fail to clear references of user %s", userId)
	}
	return nil
}
