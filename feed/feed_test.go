package feed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/graph"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	"github.com/rnr-capital/fritter-backend/utils"
	"github.com/rnr-capital/fritter-backend/utils/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2022, 9, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *store.GormStore
	index *graph.Index
	clock int
}

func newFixture(t *testing.T) *fixture {
	db, _ := dbtest.CreateTempDB(t)
	s := store.NewGormStore(db)
	return &fixture{t: t, ctx: context.Background(), store: s, index: graph.NewIndex(s)}
}

func (f *fixture) tick() time.Time {
	f.clock++
	return base.Add(time.Duration(f.clock) * time.Minute)
}

func (f *fixture) viewer(id string, unscored, high, low bool) {
	require.Nil(f.t, f.store.CreateFeed(f.ctx, &model.Feed{Id: "feed-" + id, ViewerId: id, FilterId: "filter-" + id}))
	require.Nil(f.t, f.store.CreateFilter(f.ctx, &model.CredibilityFilter{
		Id:               "filter-" + id,
		FeedId:           "feed-" + id,
		UnscoredFreets:   unscored,
		HighScoredFreets: high,
		LowScoredFreets:  low,
	}))
}

func (f *fixture) follow(src, dst string) {
	require.Nil(f.t, f.store.CreateFollow(f.ctx, &model.Follow{Id: src + "->" + dst, SrcUserId: src, DstUserId: dst}))
}

func (f *fixture) freet(id, author, parent string) {
	require.Nil(f.t, f.store.CreateFreet(f.ctx, &model.Freet{
		Id:        id,
		AuthorId:  author,
		ParentId:  parent,
		CreatedAt: f.tick(),
	}))
}

func (f *fixture) score(freetId string, value float64) {
	scoreId := "score-" + freetId
	require.Nil(f.t, f.store.CreateScore(f.ctx, &model.CredibilityScore{Id: scoreId, ParentId: freetId, Value: value}))
	require.Nil(f.t, f.store.SetFreetScore(f.ctx, freetId, scoreId))
}

func TestRefreshHidesUnscoredFreets(t *testing.T) {
	f := newFixture(t)
	f.viewer("viewer", false, true, true)
	f.follow("viewer", "b")
	f.freet("P1", "b", "")
	f.freet("P2", "b", "")
	f.score("P2", 4.0)

	m := NewMaterializer(f.store, f.index, nil, nil)
	ids, err := m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"P2"}, ids)

	feed, err := f.store.GetFeedByViewer(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, model.StringList{"P2"}, feed.FreetIds)
	assert.False(t, feed.RefreshedAt.IsZero())
}

func TestRefreshCollectsRefreetAndCommentTargets(t *testing.T) {
	f := newFixture(t)
	f.viewer("viewer", true, true, true)
	f.follow("viewer", "b")
	f.follow("viewer", "c")
	f.freet("stranger-old", "stranger", "")
	f.freet("b-post", "b", "")
	f.freet("stranger-commented", "stranger", "")
	f.freet("stranger-refreeted", "stranger", "")
	f.freet("stranger-ignored", "stranger", "")
	f.freet("c-comment", "c", "stranger-commented")
	f.freet("c-reply", "c", "c-comment")
	require.Nil(t, f.store.CreateRefreet(f.ctx, &model.Refreet{Id: "r1", UserId: "b", ParentId: "stranger-refreeted"}))
	require.Nil(t, f.store.CreateRefreet(f.ctx, &model.Refreet{Id: "r2", UserId: "c", ParentId: "b-post"}))
	f.freet("viewer-own", "viewer", "")

	m := NewMaterializer(f.store, f.index, nil, nil)
	ids, err := m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	want := []string{"stranger-refreeted", "stranger-commented", "b-post"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("feed mismatch (-want +got):\n%s", diff)
	}
}

func TestRefreshBucketsAndBoundary(t *testing.T) {
	f := newFixture(t)
	f.viewer("high-only", false, true, false)
	f.viewer("low-only", false, false, true)
	f.viewer("nothing", false, false, false)
	for _, viewer := range []string{"high-only", "low-only", "nothing"} {
		f.follow(viewer, "b")
	}
	f.freet("boundary", "b", "")
	f.score("boundary", 3.5)
	f.freet("low", "b", "")
	f.score("low", 3.49)
	f.freet("negative", "b", "")
	f.score("negative", -0.8)
	f.freet("unscored", "b", "")

	m := NewMaterializer(f.store, f.index, nil, nil)
	ids, err := m.Refresh(f.ctx, "high-only")
	require.Nil(t, err)
	assert.Equal(t, []string{"boundary"}, ids)
	ids, err = m.Refresh(f.ctx, "low-only")
	require.Nil(t, err)
	assert.Equal(t, []string{"negative", "low"}, ids)
	ids, err = m.Refresh(f.ctx, "nothing")
	require.Nil(t, err)
	assert.Equal(t, []string{}, ids)
}

func TestRefreshIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.viewer("viewer", true, true, true)
	for _, user := range []string{"b", "c", "d"} {
		f.follow("viewer", user)
		f.freet(user+"-1", user, "")
		f.freet(user+"-2", user, "")
	}
	f.freet("c-comment", "c", "b-1")

	m := NewMaterializer(f.store, f.index, nil, nil)
	first, err := m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	second, err := m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 6)
}

func TestRefreshExcludesDanglingScore(t *testing.T) {
	f := newFixture(t)
	f.viewer("viewer", true, true, true)
	f.follow("viewer", "b")
	f.freet("ok", "b", "")
	f.freet("broken", "b", "")
	require.Nil(t, f.store.SetFreetScore(f.ctx, "broken", "no-such-score"))
	require.Nil(t, f.store.CreateRefreet(f.ctx, &model.Refreet{Id: "r1", UserId: "b", ParentId: "deleted"}))

	m := NewMaterializer(f.store, f.index, nil, nil)
	ids, err := m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"ok"}, ids)
}

// racingStore reports the listed freets as gone, as if a concurrent delete
// landed after the universe was read.
type racingStore struct {
	*store.GormStore
	gone map[string]bool
}

func (s *racingStore) GetFreet(ctx context.Context, id string) (*model.Freet, error) {
	if s.gone[id] {
		return nil, errors.Wrapf(model.ErrNotFound, "freet %s", id)
	}
	return s.GormStore.GetFreet(ctx, id)
}

func TestRefreshExcludesFreetDeletedMidRefresh(t *testing.T) {
	f := newFixture(t)
	f.viewer("viewer", true, true, true)
	f.follow("viewer", "b")
	f.freet("kept", "b", "")
	f.freet("racing", "b", "")
	f.score("racing", 4.0)

	s := &racingStore{GormStore: f.store, gone: map[string]bool{"racing": true}}
	m := NewMaterializer(s, f.index, nil, nil)
	ids, err := m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"kept"}, ids)

	feed, err := f.store.GetFeedByViewer(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, model.StringList{"kept"}, feed.FreetIds)
}

func TestRefreshUnknownViewer(t *testing.T) {
	f := newFixture(t)
	m := NewMaterializer(f.store, f.index, nil, nil)
	_, err := m.Refresh(f.ctx, "ghost")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func newTestCache(t *testing.T) (*utils.RedisFeedStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return utils.NewRedisFeedStore(client, time.Minute), mr
}

func TestGetUsesCacheThenStore(t *testing.T) {
	f := newFixture(t)
	f.viewer("viewer", true, true, true)
	f.follow("viewer", "b")
	f.freet("b-1", "b", "")
	cache, mr := newTestCache(t)
	m := NewMaterializer(f.store, f.index, cache, nil)

	// never materialized: Get refreshes
	ids, err := m.Get(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-1"}, ids)

	// new content is not visible until the next refresh
	f.freet("b-2", "b", "")
	ids, err = m.Get(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-1"}, ids)

	// cache gone, persisted list still serves
	mr.FlushAll()
	ids, err = m.Get(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-1"}, ids)

	// redis down, reads degrade to the database
	mr.Close()
	ids, err = m.Get(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-1"}, ids)
	ids, err = m.Refresh(f.ctx, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-2", "b-1"}, ids)
}

func TestRefreshAll(t *testing.T) {
	f := newFixture(t)
	f.viewer("v1", true, true, true)
	f.viewer("v2", true, true, true)
	f.follow("v1", "b")
	f.freet("b-1", "b", "")

	m := NewMaterializer(f.store, f.index, nil, nil)
	n, err := m.RefreshAll(f.ctx)
	require.Nil(t, err)
	assert.Equal(t, 2, n)

	ids, err := m.Get(f.ctx, "v1")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-1"}, ids)
	ids, err = m.Get(f.ctx, "v2")
	require.Nil(t, err)
	assert.Empty(t, ids)
}

func TestInvalidatorRefreshesFollowers(t *testing.T) {
	f := newFixture(t)
	f.viewer("follower", true, true, true)
	f.viewer("bystander", true, true, true)
	f.follow("follower", "b")
	m := NewMaterializer(f.store, f.index, nil, nil)
	_, err := m.RefreshAll(f.ctx)
	require.Nil(t, err)

	bus := events.NewEventBus(true)
	defer bus.Close()
	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	messages, err := bus.Subscribe(ctx, events.TopicGraphChanged)
	require.Nil(t, err)
	invalidator := NewInvalidator("invalidator", m, f.index, bus)
	go invalidator.Consume(ctx, messages)

	f.freet("b-1", "b", "")
	publisher := events.NewWatermillPublisher(bus)
	require.Nil(t, publisher.Publish(ctx, events.Event{Type: events.EventContentCreated, UserId: "b", ContentId: "b-1"}))

	ids, err := m.Get(f.ctx, "follower")
	require.Nil(t, err)
	assert.Equal(t, []string{"b-1"}, ids)

	// filter change only touches the viewer that changed it
	require.Nil(t, f.store.UpdateFilter(f.ctx, "filter-follower", false, true, true))
	require.Nil(t, publisher.Publish(ctx, events.Event{Type: events.EventFilterChanged, UserId: "follower"}))
	ids, err = m.Get(f.ctx, "follower")
	require.Nil(t, err)
	assert.Empty(t, ids)
}
