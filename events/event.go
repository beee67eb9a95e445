// Package events carries content graph changes from the mutating operations to
// whoever keeps derived state fresh, feeds mostly.
package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

const TopicGraphChanged = "graph_changed"

type EventType string

const (
	// UserId authored a freet or comment, or refreeted.
	EventContentCreated EventType = "CONTENT_CREATED"
	// A freet, comment or refreet of UserId went away.
	EventContentRemoved EventType = "CONTENT_REMOVED"
	EventLikeChanged    EventType = "LIKE_CHANGED"
	EventScoreChanged   EventType = "SCORE_CHANGED"
	// UserId followed or unfollowed someone.
	EventFollowChanged EventType = "FOLLOW_CHANGED"
	EventFilterChanged EventType = "FILTER_CHANGED"
	EventUserDeleted   EventType = "USER_DELETED"
)

type Event struct {
	Type      EventType `json:"type"`
	UserId    string    `json:"user_id"`
	ContentId string    `json:"content_id,omitempty"`
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func Decode(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return e, errors.Wrap(err, "malformed graph event")
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) error { return nil }

// WatermillPublisher publishes events to TopicGraphChanged on a watermill
// publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := e.Encode()
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(TopicGraphChanged, msg); err != nil {
		return errors.Wrapf(err, "fail to publish %s", e.Type)
	}
	return nil
}

// NewEventBus returns the in-process bus. With blocking set, Publish returns
// only after every subscriber acked the message.
func NewEventBus(blocking bool) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: blocking,
		},
		NewLogrusAdapter(),
	)
}
