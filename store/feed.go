package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateFeed(ctx context.Context, feed *model.Feed) error {
	if err := s.conn(ctx).Create(feed).Error; err != nil {
		return errors.Wrapf(err, "fail to create feed %s", feed.Id)
	}
	return nil
}

func (s *GormStore) GetFeed(ctx context.Context, id string) (*model.Feed, error) {
	var feed model.Feed
	if err := s.conn(ctx).Where("id = ?", id).First(&feed).Error; err != nil {
		return nil, lookupError(err, "feed %s", id)
	}
	return &feed, nil
}

func (s *GormStore) GetFeedByViewer(ctx context.Context, viewerId string) (*model.Feed, error) {
	var feed model.Feed
	if err := s.conn(ctx).Where("viewer_id = ?", viewerId).First(&feed).Error; err != nil {
		return nil, lookupError(err, "feed of user %s", viewerId)
	}
	return &feed, nil
}

func (s *GormStore) ListFeeds(ctx context.Context) ([]*model.Feed, error) {
	var feeds []*model.Feed
	if err := s.conn(ctx).Order("id").Find(&feeds).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list feeds")
	}
	return feeds, nil
}

func (s *GormStore) SetFeedFreets(ctx context.Context, id string, freetIds []string, refreshedAt time.Time) error {
	res := s.conn(ctx).Model(&model.Feed{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"freet_ids":    model.StringList(freetIds),
			"refreshed_at": refreshedAt,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to save feed %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "feed %s", id)
	}
	return nil
}

func (s *GormStore) DeleteFeed(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Feed{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete feed %s", id)
	}
	return nil
}

func (s *GormStore) CreateSearch(ctx context.Context, search *model.Search) error {
	if err := s.conn(ctx).Create(search).Error; err != nil {
		return errors.Wrapf(err, "fail to create search %s", search.Id)
	}
	return nil
}

func (s *GormStore) GetSearchByViewer(ctx context.Context, viewerId string) (*model.Search, error) {
	var search model.Search
	if err := s.conn(ctx).Where("viewer_id = ?", viewerId).First(&search).Error; err != nil {
		return nil, lookupError(err, "search of user %s", viewerId)
	}
	return &search, nil
}

func (s *GormStore) UpdateSearch(ctx context.Context, id string, content string, userIds []string) error {
	res := s.conn(ctx).Model(&model.Search{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content": content,
			"users":   model.StringList(userIds),
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to update search %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "search %s", id)
	}
	return nil
}

func (s *GormStore) DeleteSearch(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Search{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete search %s", id)
	}
	return nil
}
