package core

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/credibility"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/filtering"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
)

// CreateUser creates a user together with its feed, the feed's filter (every
// bucket visible) and its search state.
func (c *Core) CreateUser(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	user := &model.User{
		Id:       uuid.New().String(),
		Username: username,
	}
	err := c.store.Transaction(ctx, func(tx store.Store) error {
		_, err := tx.GetUserByUsername(ctx, username)
		if err == nil {
			return errors.Wrapf(model.ErrAlreadyExists, "username %s", username)
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		feedId := uuid.New().String()
		filter, err := filtering.NewPolicy(tx).Create(ctx, feedId)
		if err != nil {
			return err
		}
		if err := tx.CreateFeed(ctx, &model.Feed{
			Id:       feedId,
			ViewerId: user.Id,
			FilterId: filter.Id,
		}); err != nil {
			return err
		}
		return tx.CreateSearch(ctx, &model.Search{
			Id:       uuid.New().String(),
			ViewerId: user.Id,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create user")
	}
	Logger.LogV2.WithField("user_id", user.Id).Info("user created")
	return user, nil
}

func (c *Core) GetUser(ctx context.Context, userId string) (*model.User, error) {
	return c.store.GetUser(ctx, userId)
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return c.store.GetUserByUsername(ctx, username)
}

// CascadeDeleteUser deletes userId and everything it owns. A missing user is
// a no-op.
func (c *Core) CascadeDeleteUser(ctx context.Context, userId string) error {
	if err := c.integrity.CascadeDeleteUser(ctx, userId); err != nil {
		return errors.Wrapf(err, "fail to delete user %s", userId)
	}
	c.publish(ctx, events.Event{Type: events.EventUserDeleted, UserId: userId})
	return nil
}

// EnableUserCredibility stores the mean score of userId's scored freets. A
// user without any scored freet stays disabled and nil is returned.
func (c *Core) EnableUserCredibility(ctx context.Context, userId string) (*float64, error) {
	if _, err := c.store.GetUser(ctx, userId); err != nil {
		return nil, err
	}
	avg, err := credibility.UserAverage(ctx, c.store, userId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to aggregate credibility of %s", userId)
	}
	if err := c.store.SetUserCredibility(ctx, userId, avg != nil, avg); err != nil {
		return nil, err
	}
	return avg, nil
}

func (c *Core) DisableUserCredibility(ctx context.Context, userId string) error {
	return c.store.SetUserCredibility(ctx, userId, false, nil)
}

// UpdateSearch stores the users whose username contains query: followed users
// first in follow order, then everyone else newest account first. An empty
// query clears the result.
func (c *Core) UpdateSearch(ctx context.Context, viewerId, query string) ([]string, error) {
	search, err := c.store.GetSearchByViewer(ctx, viewerId)
	if err != nil {
		return nil, err
	}

	matches := []string{}
	if query != "" {
		seen := map[string]bool{}
		followed, err := c.index.FollowedUserIds(ctx, viewerId)
		if err != nil {
			return nil, err
		}
		for _, userId := range followed {
			user, err := c.store.GetUser(ctx, userId)
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if strings.Contains(user.Username, query) && !seen[user.Id] {
				seen[user.Id] = true
				matches = append(matches, user.Id)
			}
		}

		users, err := c.store.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			if strings.Contains(user.Username, query) && !seen[user.Id] {
				seen[user.Id] = true
				matches = append(matches, user.Id)
			}
		}
	}

	if err := c.store.UpdateSearch(ctx, search.Id, query, matches); err != nil {
		return nil, err
	}
	return matches, nil
}
