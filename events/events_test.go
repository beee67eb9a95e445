package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.NotNil(t, err)

	e, err := Decode([]byte(`{"type":"FOLLOW_CHANGED","user_id":"u1"}`))
	require.Nil(t, err)
	assert.Equal(t, Event{Type: EventFollowChanged, UserId: "u1"}, e)
}

func TestWatermillPublisherDelivers(t *testing.T) {
	bus := NewEventBus(false)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, TopicGraphChanged)
	require.Nil(t, err)

	sent := Event{Type: EventContentCreated, UserId: "u1", ContentId: "f1"}
	require.Nil(t, NewWatermillPublisher(bus).Publish(ctx, sent))

	select {
	case msg := <-messages:
		msg.Ack()
		got, err := Decode(msg.Payload)
		require.Nil(t, err)
		assert.Equal(t, sent, got)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestReporterDrainsUntilClosed(t *testing.T) {
	bus := NewEventBus(true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, TopicGraphChanged)
	require.Nil(t, err)
	reporter := NewReporter(ReporterConfig{Name: "reporter"}, &statsd.NoOpClient{}, bus)
	done := make(chan struct{})
	go func() {
		reporter.ProcessEvents(messages)
		close(done)
	}()

	publisher := NewWatermillPublisher(bus)
	require.Nil(t, publisher.Publish(ctx, Event{Type: EventLikeChanged, UserId: "u1"}))
	require.Nil(t, bus.Publish(TopicGraphChanged, message.NewMessage(watermill.NewUUID(), []byte("garbage"))))
	require.Nil(t, publisher.Publish(ctx, Event{Type: EventUserDeleted, UserId: "u1"}))

	require.Nil(t, bus.Close())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reporter did not stop")
	}
	assert.Equal(t, "reporter", reporter.Name())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.Nil(t, p.Publish(context.Background(), Event{Type: EventFilterChanged}))
}

type countingStatsd struct {
	*statsd.NoOpClient
	mu   sync.Mutex
	tags []string
}

func (c *countingStatsd) Incr(name string, tags []string, rate float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = append(c.tags, tags...)
	return nil
}

func (c *countingStatsd) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tags...)
}

type stubModule struct {
	name     string
	err      error
	shutdown bool
}

func (m *stubModule) RunModule(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return nil
}

func (m *stubModule) Name() string { return m.name }

func (m *stubModule) Shutdown() { m.shutdown = true }

func TestRunModulesReportsUntilCancelled(t *testing.T) {
	bus := NewEventBus(true)
	defer bus.Close()
	metrics := &countingStatsd{NoOpClient: &statsd.NoOpClient{}}
	reporter := NewReporter(ReporterConfig{Name: "reporter"}, metrics, bus)
	idle := &stubModule{name: "idle"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunModules(ctx, reporter, idle) }()

	publisher := NewWatermillPublisher(bus)
	// events published before the reporter subscribes are dropped
	require.Eventually(t, func() bool {
		if err := publisher.Publish(ctx, Event{Type: EventScoreChanged, UserId: "u1"}); err != nil {
			return false
		}
		return len(metrics.snapshot()) > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, metrics.snapshot(), "type:SCORE_CHANGED")

	cancel()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("modules did not stop")
	}
	assert.True(t, idle.shutdown)
}

func TestRunModulesStopsOnFailure(t *testing.T) {
	broken := &stubModule{name: "broken", err: errors.New("cannot subscribe")}
	idle := &stubModule{name: "idle"}

	err := RunModules(context.Background(), broken, idle)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "module broken")
	assert.True(t, broken.shutdown)
	assert.True(t, idle.shutdown)
}
