package events

import (
	"context"
	"fmt"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rnr-capital/fritter-backend/utils"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
)

type ReporterConfig struct {
	Name string
}

// Reporter's job is to listen to the graph event topic and count events by
// type in Datadog, for monitoring purpose.
type Reporter struct {
	Config ReporterConfig

	Statsd statsd.ClientInterface

	EventBus message.Subscriber
}

var _ Module = (*Reporter)(nil)

func NewReporter(config ReporterConfig, statsdClient statsd.ClientInterface, bus message.Subscriber) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsdClient,
		EventBus: bus,
	}
}

// ReportEvent increments the event counter by 1, tagged with the event type.
func ReportEvent(e Event, statsdClient statsd.ClientInterface) {
	err := statsdClient.Incr(utils.MetricGraphEvent, []string{"type:" + string(e.Type)}, 1)
	if err != nil {
		Logger.LogV2.Info("cannot report graph event")
	}
}

// ProcessEvents consumes messages until the channel closes. Malformed
// payloads are logged and skipped.
func (r *Reporter) ProcessEvents(messages <-chan *message.Message) {
	for msg := range messages {
		msg.Ack()

		e, err := Decode(msg.Payload)
		if err != nil {
			Logger.LogV2.Error(fmt.Sprintf("reporter dropped message %s: %v", msg.UUID, err))
			continue
		}
		ReportEvent(e, r.Statsd)
	}
}

func (r *Reporter) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.EventBus.Subscribe(ctx, TopicGraphChanged)
	if err != nil {
		return err
	}
	r.ProcessEvents(messages)
	return nil
}

func (r *Reporter) Name() string {
	return r.Config.Name
}

func (r *Reporter) Shutdown() {
	Logger.LogV2.Info(fmt.Sprint("Module ", r.Config.Name, " gracefully shutdown"))
}
