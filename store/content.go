package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateFreet(ctx context.Context, freet *model.Freet) error {
	if err := s.conn(ctx).Create(freet).Error; err != nil {
		return errors.Wrapf(err, "fail to create freet %s", freet.Id)
	}
	return nil
}

func (s *GormStore) GetFreet(ctx context.Context, id string) (*model.Freet, error) {
	var freet model.Freet
	if err := s.conn(ctx).Where("id = ?", id).First(&freet).Error; err != nil {
		return nil, lookupError(err, "freet %s", id)
	}
	return &freet, nil
}

func (s *GormStore) SetFreetScore(ctx context.Context, freetId, scoreId string) error {
	res := s.conn(ctx).Model(&model.Freet{}).
		Where("id = ?", freetId).
		Update("credibility_score_id", scoreId)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to set score of freet %s", freetId)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "freet %s", freetId)
	}
	return nil
}

func (s *GormStore) DeleteFreet(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Freet{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete freet %s", id)
	}
	return nil
}

func (s *GormStore) ListRootFreetsByAuthor(ctx context.Context, authorId string) ([]*model.Freet, error) {
	var freets []*model.Freet
	if err := s.conn(ctx).
		Where("author_id = ? AND parent_id = ?", authorId, "").
		Order("created_at, id").
		Find(&freets).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list freets of user %s", authorId)
	}
	return freets, nil
}

func (s *GormStore) ListCommentsByAuthor(ctx context.Context, authorId string) ([]*model.Freet, error) {
	var comments []*model.Freet
	if err := s.conn(ctx).
		Where("author_id = ? AND parent_id <> ?", authorId, "").
		Order("created_at, id").
		Find(&comments).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list comments of user %s", authorId)
	}
	return comments, nil
}

func (s *GormStore) ListRootFreetIds(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.conn(ctx).Model(&model.Freet{}).
		Where("parent_id = ?", "").
		Order("created_at desc, id").
		Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list freet ids")
	}
	return ids, nil
}
