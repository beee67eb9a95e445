// Package filtering holds the per-viewer credibility filter: which score
// buckets a feed shows.
package filtering

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

// FilterUpdate carries the flags a viewer sends. A nil flag means true, the
// update always replaces all three.
type FilterUpdate struct {
	Unscored   *bool
	HighScored *bool
	LowScored  *bool
}

func flagOrTrue(b *bool) bool {
	return b == nil || *b
}

// Resolve returns the three flags with missing ones set to true.
func (u FilterUpdate) Resolve() (unscored, highScored, lowScored bool) {
	return flagOrTrue(u.Unscored), flagOrTrue(u.HighScored), flagOrTrue(u.LowScored)
}

type Policy struct {
	store store.FilterStore
}

func NewPolicy(s store.FilterStore) *Policy {
	return &Policy{store: s}
}

// Create makes the filter of feedId with every bucket visible.
func (p *Policy) Create(ctx context.Context, feedId string) (*model.CredibilityFilter, error) {
	filter := &model.CredibilityFilter{
		Id:               uuid.New().String(),
		FeedId:           feedId,
		UnscoredFreets:   true,
		HighScoredFreets: true,
		LowScoredFreets:  true,
	}
	if err := p.store.CreateFilter(ctx, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (p *Policy) Get(ctx context.Context, filterId string) (*model.CredibilityFilter, error) {
	return p.store.GetFilter(ctx, filterId)
}

func (p *Policy) GetByFeed(ctx context.Context, feedId string) (*model.CredibilityFilter, error) {
	return p.store.GetFilterByFeed(ctx, feedId)
}

// Update replaces all three flags of filterId.
func (p *Policy) Update(ctx context.Context, filterId string, unscored, highScored, lowScored bool) error {
	if err := p.store.UpdateFilter(ctx, filterId, unscored, highScored, lowScored); err != nil {
		return errors.Wrap(err, "fail to update credibility filter")
	}
	Logger.LogV2.WithFields(logrus.Fields{
		"filter_id":   filterId,
		"unscored":    unscored,
		"high_scored": highScored,
		"low_scored":  lowScored,
	}).Debug("credibility filter updated")
	return nil
}

func (p *Policy) Apply(ctx context.Context, filterId string, update FilterUpdate) error {
	unscored, highScored, lowScored := update.Resolve()
	return p.Update(ctx, filterId, unscored, highScored, lowScored)
}
