package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateFilter(ctx context.Context, filter *model.CredibilityFilter) error {
	if err := s.conn(ctx).Create(filter).Error; err != nil {
		return errors.Wrapf(err, "fail to create filter %s", filter.Id)
	}
	return nil
}

func (s *GormStore) GetFilter(ctx context.Context, id string) (*model.CredibilityFilter, error) {
	var filter model.CredibilityFilter
	if err := s.conn(ctx).Where("id = ?", id).First(&filter).Error; err != nil {
		return nil, lookupError(err, "filter %s", id)
	}
	return &filter, nil
}

func (s *GormStore) GetFilterByFeed(ctx context.Context, feedId string) (*model.CredibilityFilter, error) {
	var filter model.CredibilityFilter
	if err := s.conn(ctx).Where("feed_id = ?", feedId).First(&filter).Error; err != nil {
		return nil, lookupError(err, "filter of feed %s", feedId)
	}
	return &filter, nil
}

func (s *GormStore) UpdateFilter(ctx context.Context, id string, unscored, highScored, lowScored bool) error {
	// We use map to update the flags because false is a zero-like value and is
	// ignored during structural update. See https://gorm.io/docs/update.html.
	res := s.conn(ctx).Model(&model.CredibilityFilter{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"unscored_freets":    unscored,
			"high_scored_freets": highScored,
			"low_scored_freets":  lowScored,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to update filter %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "filter %s", id)
	}
	return nil
}

func (s *GormStore) DeleteFilter(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.CredibilityFilter{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete filter %s", id)
	}
	return nil
}
