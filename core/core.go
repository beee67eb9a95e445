// Package core is the operation set the rest of the backend calls into:
// credibility scoring, feed materialization and the content graph mutations
// that keep both consistent.
package core

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/rnr-capital/fritter-backend/credibility"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/feed"
	"github.com/rnr-capital/fritter-backend/filtering"
	"github.com/rnr-capital/fritter-backend/graph"
	"github.com/rnr-capital/fritter-backend/integrity"
	"github.com/rnr-capital/fritter-backend/store"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Cache keeps materialized feeds, nil disables caching.
	Cache feed.Cache
	// Publisher receives graph events, nil drops them.
	Publisher events.Publisher
	Metrics   statsd.ClientInterface
}

type Core struct {
	store        store.Store
	index        *graph.Index
	engine       *credibility.Engine
	ledger       *credibility.Ledger
	policy       *filtering.Policy
	integrity    *integrity.Manager
	materializer *feed.Materializer
	publisher    events.Publisher
}

func New(s store.Store, config Config) *Core {
	metrics := config.Metrics
	if metrics == nil {
		metrics = &statsd.NoOpClient{}
	}
	publisher := config.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	var cache integrity.FeedCacheInvalidator
	if config.Cache != nil {
		cache = config.Cache
	}

	index := graph.NewIndex(s)
	ledger := credibility.NewLedger(s, metrics)
	engine := credibility.NewEngine(s, ledger, metrics)
	return &Core{
		store:        s,
		index:        index,
		engine:       engine,
		ledger:       ledger,
		policy:       filtering.NewPolicy(s),
		integrity:    integrity.NewManager(s, index, engine, cache, metrics),
		materializer: feed.NewMaterializer(s, index, config.Cache, metrics),
		publisher:    publisher,
	}
}

func (c *Core) Index() *graph.Index {
	return c.index
}

func (c *Core) Materializer() *feed.Materializer {
	return c.materializer
}

// publish is best effort: the mutation already happened and feeds still
// rebuild on the next refresh.
func (c *Core) publish(ctx context.Context, e events.Event) {
	if err := c.publisher.Publish(ctx, e); err != nil {
		Logger.LogV2.WithFields(logrus.Fields{
			"type":    e.Type,
			"user_id": e.UserId,
		}).Warnf("fail to publish graph event: %v", err)
	}
}
