package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"gorm.io/gorm"
)

func (s *GormStore) CreateScore(ctx context.Context, score *model.CredibilityScore) error {
	if err := s.conn(ctx).Create(score).Error; err != nil {
		return errors.Wrapf(err, "fail to create score %s", score.Id)
	}
	return nil
}

func (s *GormStore) GetScore(ctx context.Context, id string) (*model.CredibilityScore, error) {
	var score model.CredibilityScore
	if err := s.conn(ctx).Where("id = ?", id).First(&score).Error; err != nil {
		return nil, lookupError(err, "score %s", id)
	}
	return &score, nil
}

func (s *GormStore) GetScoreByParent(ctx context.Context, parentId string) (*model.CredibilityScore, error) {
	var score model.CredibilityScore
	if err := s.conn(ctx).Where("parent_id = ?", parentId).First(&score).Error; err != nil {
		return nil, lookupError(err, "score of freet %s", parentId)
	}
	return &score, nil
}

func (s *GormStore) AddScoreDelta(ctx context.Context, id string, delta float64) error {
	res := s.conn(ctx).Model(&model.CredibilityScore{}).
		Where("id = ?", id).
		UpdateColumn("value", gorm.Expr("value + ?", delta))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to update score %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "score %s", id)
	}
	return nil
}

func (s *GormStore) DeleteScore(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.CredibilityScore{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete score %s", id)
	}
	return nil
}

func (s *GormStore) CreateContest(ctx context.Context, contest *model.Contest) error {
	if err := s.conn(ctx).Create(contest).Error; err != nil {
		return errors.Wrapf(err, "fail to create contest %s", contest.Id)
	}
	return nil
}

func (s *GormStore) GetContest(ctx context.Context, id string) (*model.Contest, error) {
	var contest model.Contest
	if err := s.conn(ctx).Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, lookupError(err, "contest %s", id)
	}
	return &contest, nil
}

func (s *GormStore) ListContestsByScore(ctx context.Context, scoreId string) ([]*model.Contest, error) {
	var contests []*model.Contest
	if err := s.conn(ctx).
		Where("score_id = ?", scoreId).
		Order("created_at, id").
		Find(&contests).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list contests of score %s", scoreId)
	}
	return contests, nil
}

func (s *GormStore) DeleteContest(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Contest{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete contest %s", id)
	}
	return nil
}
