package utils

import (
	"github.com/DataDog/datadog-go/statsd"
)

const (
	MetricContestFiled   = "credfeed.contest.filed"
	MetricScoreCreated   = "credfeed.score.created"
	MetricCascadeDeleted = "credfeed.cascade.deleted"
	MetricFeedRefresh    = "credfeed.feed.refresh"
	MetricFeedExcluded   = "credfeed.feed.excluded"
	MetricFeedCacheHit   = "credfeed.feed.cache_hit"
	MetricFeedCacheMiss  = "credfeed.feed.cache_miss"
	MetricGraphEvent     = "credfeed.graph.event"
)

// NewStatsdClient connects to the datadog agent at addr. An empty addr returns
// a client that drops everything.
func NewStatsdClient(addr string) (statsd.ClientInterface, error) {
	if addr == "" {
		return &statsd.NoOpClient{}, nil
	}
	return statsd.New(addr, statsd.WithNamespace("fritter."))
}
