package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/model"
)

// CreateScore scores contentId from sources and returns the score id.
func (c *Core) CreateScore(ctx context.Context, contentId string, sources []string) (string, error) {
	score, err := c.engine.Attach(ctx, contentId, sources)
	if err != nil {
		return "", err
	}
	c.publish(ctx, events.Event{Type: events.EventScoreChanged, ContentId: contentId})
	return score.Id, nil
}

func (c *Core) GetScore(ctx context.Context, scoreId string) (*model.CredibilityScore, error) {
	return c.engine.Get(ctx, scoreId)
}

// FileContest applies a contest to scoreId and returns the contest id. The
// caller is responsible for refusing contests by the content's author, see
// ContestContent.
func (c *Core) FileContest(ctx context.Context, scoreId string, inFavor bool, sources []string) (string, error) {
	contest, err := c.ledger.FileContest(ctx, scoreId, inFavor, sources)
	if err != nil {
		return "", err
	}
	c.publish(ctx, events.Event{Type: events.EventScoreChanged})
	return contest.Id, nil
}

// ContestContent contests the score of contentId on behalf of userId.
func (c *Core) ContestContent(ctx context.Context, userId, contentId string, inFavor bool, sources []string) (*model.Contest, error) {
	freet, err := c.store.GetFreet(ctx, contentId)
	if err != nil {
		return nil, errors.Wrap(err, "fail to contest")
	}
	if freet.AuthorId == userId {
		return nil, errors.Wrapf(model.ErrSelfContest, "user %s on %s", userId, contentId)
	}
	if !freet.IsScored() {
		return nil, errors.Wrapf(model.ErrNotFound, "score of freet %s", contentId)
	}
	contest, err := c.ledger.FileContest(ctx, freet.CredibilityScoreId, inFavor, sources)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, events.Event{Type: events.EventScoreChanged, UserId: userId, ContentId: contentId})
	return contest, nil
}

func (c *Core) ListContests(ctx context.Context, scoreId string) ([]*model.Contest, error) {
	return c.ledger.ListByTarget(ctx, scoreId)
}
