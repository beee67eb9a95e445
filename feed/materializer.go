// Package feed materializes per-viewer feeds from the follow graph, the
// content graph and the viewer's credibility filter.
package feed

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/filtering"
	"github.com/rnr-capital/fritter-backend/graph"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	"github.com/rnr-capital/fritter-backend/utils"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxParallelCollect = 8

// Cache holds the last materialization of each viewer.
type Cache interface {
	SetFeedContent(ctx context.Context, viewerId string, freetIds []string) error
	GetFeedContent(ctx context.Context, viewerId string) ([]string, bool, error)
	InvalidateFeedContent(ctx context.Context, viewerId string) error
}

type Materializer struct {
	store   store.Store
	index   *graph.Index
	cache   Cache
	metrics statsd.ClientInterface
	now     func() time.Time
}

// NewMaterializer builds a materializer. cache and metrics may be nil.
func NewMaterializer(s store.Store, index *graph.Index, cache Cache, metrics statsd.ClientInterface) *Materializer {
	if metrics == nil {
		metrics = &statsd.NoOpClient{}
	}
	return &Materializer{
		store:   s,
		index:   index,
		cache:   cache,
		metrics: metrics,
		now:     time.Now,
	}
}

// Refresh rebuilds the feed of viewerId from scratch and persists it. The
// result holds root freets contributed by followed users (their freets, the
// freets they refreeted, the freets they commented on) whose score bucket the
// viewer's filter shows, newest first.
//
// Content or scores that disappear while the feed is built are left out, they
// never fail the refresh.
func (m *Materializer) Refresh(ctx context.Context, viewerId string) ([]string, error) {
	start := m.now()
	feed, err := m.store.GetFeedByViewer(ctx, viewerId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to refresh feed")
	}
	filter, err := m.store.GetFilter(ctx, feed.FilterId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to load filter of feed %s", feed.Id)
	}

	candidates, err := m.collectCandidates(ctx, viewerId)
	if err != nil {
		return nil, err
	}
	universe, err := m.index.Universe(ctx)
	if err != nil {
		return nil, err
	}

	visible := []string{}
	excluded := 0
	for _, id := range universe {
		if !candidates[id] {
			continue
		}
		bucket, ok, err := m.resolveBucket(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok || !filtering.IsVisible(filter, bucket) {
			excluded++
			continue
		}
		visible = append(visible, id)
	}

	if err := m.store.SetFeedFreets(ctx, feed.Id, visible, m.now()); err != nil {
		return nil, err
	}
	if m.cache != nil {
		if err := m.cache.SetFeedContent(ctx, viewerId, visible); err != nil {
			Logger.LogV2.WithField("viewer_id", viewerId).Warnf("fail to cache feed: %v", err)
		}
	}

	m.metrics.Timing(utils.MetricFeedRefresh, m.now().Sub(start), nil, 1)
	m.metrics.Count(utils.MetricFeedExcluded, int64(excluded), nil, 1)
	Logger.LogV2.WithFields(logrus.Fields{
		"viewer_id":  viewerId,
		"candidates": len(candidates),
		"visible":    len(visible),
	}).Debug("feed refreshed")
	return visible, nil
}

// collectCandidates unions the contributions of every user viewerId follows.
func (m *Materializer) collectCandidates(ctx context.Context, viewerId string) (map[string]bool, error) {
	followed, err := m.index.FollowedUserIds(ctx, viewerId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to resolve follows of %s", viewerId)
	}

	contributions := make([][]string, len(followed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelCollect)
	for i, userId := range followed {
		i, userId := i, userId
		g.Go(func() error {
			ids, err := m.index.Contributions(gctx, userId)
			if err != nil {
				return err
			}
			contributions[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := map[string]bool{}
	for _, ids := range contributions {
		for _, id := range ids {
			candidates[id] = true
		}
	}
	return candidates, nil
}

// resolveBucket classifies freetId. ok is false when the freet or the score it
// points at is gone.
func (m *Materializer) resolveBucket(ctx context.Context, freetId string) (filtering.Bucket, bool, error) {
	freet, err := m.store.GetFreet(ctx, freetId)
	if errors.Is(err, model.ErrNotFound) {
		Logger.LogV2.WithField("freet_id", freetId).Warn("freet vanished during feed refresh")
		return filtering.Unscored, false, nil
	}
	if err != nil {
		return filtering.Unscored, false, err
	}
	if !freet.IsScored() {
		return filtering.Classify(nil), true, nil
	}
	score, err := m.store.GetScore(ctx, freet.CredibilityScoreId)
	if errors.Is(err, model.ErrNotFound) {
		Logger.LogV2.WithFields(logrus.Fields{
			"freet_id": freetId,
			"score_id": freet.CredibilityScoreId,
		}).Warn("score vanished during feed refresh")
		return filtering.Unscored, false, nil
	}
	if err != nil {
		return filtering.Unscored, false, err
	}
	return filtering.Classify(score), true, nil
}

// Get returns the last materialization of viewerId: the cached copy when there
// is one, else the persisted list. A feed never materialized is refreshed.
func (m *Materializer) Get(ctx context.Context, viewerId string) ([]string, error) {
	if m.cache != nil {
		ids, ok, err := m.cache.GetFeedContent(ctx, viewerId)
		if err != nil {
			Logger.LogV2.WithField("viewer_id", viewerId).Warnf("feed cache unavailable: %v", err)
		}
		if ok {
			m.metrics.Incr(utils.MetricFeedCacheHit, nil, 1)
			return ids, nil
		}
		m.metrics.Incr(utils.MetricFeedCacheMiss, nil, 1)
	}

	feed, err := m.store.GetFeedByViewer(ctx, viewerId)
	if err != nil {
		return nil, err
	}
	if feed.RefreshedAt.IsZero() {
		return m.Refresh(ctx, viewerId)
	}
	ids := []string(feed.FreetIds)
	if ids == nil {
		ids = []string{}
	}
	if m.cache != nil {
		if err := m.cache.SetFeedContent(ctx, viewerId, ids); err != nil {
			Logger.LogV2.WithField("viewer_id", viewerId).Warnf("fail to cache feed: %v", err)
		}
	}
	return ids, nil
}

// RefreshAll refreshes every feed. A failing viewer is logged and skipped, the
// first failure is returned once all feeds were tried.
func (m *Materializer) RefreshAll(ctx context.Context) (int, error) {
	feeds, err := m.store.ListFeeds(ctx)
	if err != nil {
		return 0, err
	}
	var firstErr error
	refreshed := 0
	for _, feed := range feeds {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := m.Refresh(ctx, feed.ViewerId); err != nil {
			Logger.LogV2.WithField("viewer_id", feed.ViewerId).Errorf("fail to refresh feed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		refreshed++
	}
	return refreshed, firstErr
}
