package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
)

func (s *GormStore) CreateThread(ctx context.Context, thread *model.Thread) error {
	if err := s.conn(ctx).Create(thread).Error; err != nil {
		return errors.Wrapf(err, "fail to create thread %s", thread.Id)
	}
	return nil
}

func (s *GormStore) GetThread(ctx context.Context, id string) (*model.Thread, error) {
	var thread model.Thread
	if err := s.conn(ctx).Where("id = ?", id).First(&thread).Error; err != nil {
		return nil, lookupError(err, "thread %s", id)
	}
	return &thread, nil
}

func (s *GormStore) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	var threads []*model.Thread
	if err := s.conn(ctx).Order("created_at desc, id").Find(&threads).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list threads")
	}
	return threads, nil
}

func (s *GormStore) ListThreadsByAuthor(ctx context.Context, authorId string) ([]*model.Thread, error) {
	var threads []*model.Thread
	if err := s.conn(ctx).
		Where("author_id = ?", authorId).
		Order("created_at desc, id").
		Find(&threads).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to list threads of user %s", authorId)
	}
	return threads, nil
}

func (s *GormStore) SetThreadFreets(ctx context.Context, id string, freetIds []string) error {
	res := s.conn(ctx).Model(&model.Thread{}).
		Where("id = ?", id).
		Update("freet_ids", model.StringList(freetIds))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to save members of thread %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrNotFound, "thread %s", id)
	}
	return nil
}

// SetFreetThread tags every freet in freetIds as a member of threadId.
func (s *GormStore) SetFreetThread(ctx context.Context, freetIds []string, threadId string) error {
	if len(freetIds) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(&model.Freet{}).
		Where("id IN ?", freetIds).
		Update("thread_id", threadId).Error; err != nil {
		return errors.Wrapf(err, "fail to tag freets of thread %s", threadId)
	}
	return nil
}

func (s *GormStore) DeleteThread(ctx context.Context, id string) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&model.Thread{}).Error; err != nil {
		return errors.Wrapf(err, "fail to delete thread %s", id)
	}
	return nil
}
