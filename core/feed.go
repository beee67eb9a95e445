package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/filtering"
)

// SetFilterPolicy replaces the three flags of filterId.
func (c *Core) SetFilterPolicy(ctx context.Context, filterId string, unscored, highScored, lowScored bool) error {
	filter, err := c.policy.Get(ctx, filterId)
	if err != nil {
		return err
	}
	if err := c.policy.Update(ctx, filterId, unscored, highScored, lowScored); err != nil {
		return err
	}
	if feed, err := c.store.GetFeed(ctx, filter.FeedId); err == nil {
		c.publish(ctx, events.Event{Type: events.EventFilterChanged, UserId: feed.ViewerId})
	}
	return nil
}

// UpdateFeedFilter sets the filter of viewerId's feed, flags left nil are
// shown, and returns the refreshed feed.
func (c *Core) UpdateFeedFilter(ctx context.Context, viewerId string, update filtering.FilterUpdate) ([]string, error) {
	feed, err := c.store.GetFeedByViewer(ctx, viewerId)
	if err != nil {
		return nil, errors.Wrap(err, "fail to update feed filter")
	}
	if err := c.policy.Apply(ctx, feed.FilterId, update); err != nil {
		return nil, err
	}
	return c.RefreshFeed(ctx, viewerId)
}

func (c *Core) RefreshFeed(ctx context.Context, viewerId string) ([]string, error) {
	return c.materializer.Refresh(ctx, viewerId)
}

func (c *Core) GetFeed(ctx context.Context, viewerId string) ([]string, error) {
	return c.materializer.Get(ctx, viewerId)
}
