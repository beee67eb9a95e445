package feed

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/graph"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

// Invalidator refreshes the feeds a graph event can change. It is the
// push side of materialization, reads still work without it.
type Invalidator struct {
	name         string
	materializer *Materializer
	index        *graph.Index
	bus          message.Subscriber
}

var _ events.Module = (*Invalidator)(nil)

func NewInvalidator(name string, materializer *Materializer, index *graph.Index, bus message.Subscriber) *Invalidator {
	return &Invalidator{
		name:         name,
		materializer: materializer,
		index:        index,
		bus:          bus,
	}
}

// affectedViewers returns the viewers whose feed e can change. all is true
// when any feed may have changed.
func (i *Invalidator) affectedViewers(ctx context.Context, e events.Event) (viewers []string, all bool, err error) {
	switch e.Type {
	case events.EventContentCreated:
		viewers, err = i.index.FollowerUserIds(ctx, e.UserId)
		return viewers, false, err
	case events.EventFollowChanged, events.EventFilterChanged:
		return []string{e.UserId}, false, nil
	case events.EventContentRemoved, events.EventScoreChanged, events.EventUserDeleted:
		// the content may sit in feeds of users who do not follow e.UserId
		return nil, true, nil
	}
	return nil, false, nil
}

// Handle refreshes what e touches.
func (i *Invalidator) Handle(ctx context.Context, e events.Event) error {
	viewers, all, err := i.affectedViewers(ctx, e)
	if err != nil {
		return err
	}
	if all {
		_, err := i.materializer.RefreshAll(ctx)
		return err
	}
	for _, viewerId := range viewers {
		if _, err := i.materializer.Refresh(ctx, viewerId); err != nil {
			return err
		}
	}
	return nil
}

// Consume handles messages until the channel closes. Messages are acked
// after handling, a failed refresh is logged and not retried.
func (i *Invalidator) Consume(ctx context.Context, messages <-chan *message.Message) {
	for msg := range messages {
		e, err := events.Decode(msg.Payload)
		if err != nil {
			Logger.LogV2.Error(fmt.Sprintf("invalidator dropped message %s: %v", msg.UUID, err))
			msg.Ack()
			continue
		}
		if err := i.Handle(ctx, e); err != nil {
			Logger.LogV2.WithFields(logrus.Fields{
				"type":    e.Type,
				"user_id": e.UserId,
			}).Errorf("fail to refresh feeds: %v", err)
		}
		msg.Ack()
	}
}

func (i *Invalidator) RunModule(ctx context.Context) error {
	messages, err := i.bus.Subscribe(ctx, events.TopicGraphChanged)
	if err != nil {
		return err
	}
	i.Consume(ctx, messages)
	return nil
}

func (i *Invalidator) Name() string {
	return i.name
}

func (i *Invalidator) Shutdown() {
	Logger.LogV2.Info(fmt.Sprint("Module ", i.name, " gracefully shutdown"))
}
