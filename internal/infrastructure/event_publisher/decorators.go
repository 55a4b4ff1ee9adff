package event_publisher

import (
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// MetadataPublisherDecorator stamps every outgoing message with the request's
// correlation id and trace context, so consumers can stitch the registration
// back to the HTTP request that caused it.
type MetadataPublisherDecorator struct {
	message.Publisher
}

func (d MetadataPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		ctx := msg.Context()

		if correlationID := log.CorrelationIDFromContext(ctx); correlationID != "" {
			msg.Metadata.Set("correlation_id", correlationID)
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
	}
	return d.Publisher.Publish(topic, messages...)
}
