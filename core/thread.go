package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

// CreateThread posts contents as unscored root freets, in order, and groups
// them in one thread. Freets already posted are deleted again when a later
// one fails.
func (c *Core) CreateThread(ctx context.Context, authorId string, contents []string) (*model.Thread, error) {
	if len(contents) == 0 {
		return nil, errors.Wrapf(model.ErrEmptyThread, "author %s", authorId)
	}
	if _, err := c.store.GetUser(ctx, authorId); err != nil {
		return nil, errors.Wrap(err, "fail to create thread")
	}

	thread := &model.Thread{
		Id:       uuid.New().String(),
		AuthorId: authorId,
	}
	for _, content := range contents {
		freet, err := c.CreateFreet(ctx, authorId, content, nil)
		if err != nil {
			c.rollbackThread(ctx, thread)
			return nil, errors.Wrap(err, "fail to create thread")
		}
		thread.FreetIds = append(thread.FreetIds, freet.Id)
	}

	err := c.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateThread(ctx, thread); err != nil {
			return err
		}
		return tx.SetFreetThread(ctx, thread.FreetIds, thread.Id)
	})
	if err != nil {
		c.rollbackThread(ctx, thread)
		return nil, err
	}
	return thread, nil
}

func (c *Core) rollbackThread(ctx context.Context, thread *model.Thread) {
	for _, freetId := range thread.FreetIds {
		if err := c.integrity.CascadeDelete(ctx, freetId); err != nil {
			Logger.LogV2.WithFields(logrus.Fields{
				"thread_id": thread.Id,
				"freet_id":  freetId,
			}).Errorf("fail to roll back thread member: %v", err)
		}
	}
}

func (c *Core) GetThread(ctx context.Context, threadId string) (*model.Thread, error) {
	return c.store.GetThread(ctx, threadId)
}

// ListThreads returns every thread, newest first.
func (c *Core) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	return c.store.ListThreads(ctx)
}

func (c *Core) ListThreadsByAuthor(ctx context.Context, authorId string) ([]*model.Thread, error) {
	return c.store.ListThreadsByAuthor(ctx, authorId)
}

func (c *Core) ListThreadsByUsername(ctx context.Context, username string) ([]*model.Thread, error) {
	user, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list threads")
	}
	return c.store.ListThreadsByAuthor(ctx, user.Id)
}

// DeleteThread cascades through every member freet, the thread goes away with
// the last one. A missing thread is a no-op.
func (c *Core) DeleteThread(ctx context.Context, threadId string) error {
	thread, err := c.store.GetThread(ctx, threadId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, freetId := range thread.FreetIds {
		if err := c.integrity.CascadeDelete(ctx, freetId); err != nil {
			return errors.Wrapf(err, "fail to delete thread %s", threadId)
		}
		c.publish(ctx, events.Event{Type: events.EventContentRemoved, UserId: thread.AuthorId, ContentId: freetId})
	}
	// usually gone already, taken along by its last member
	return c.store.DeleteThread(ctx, threadId)
}
