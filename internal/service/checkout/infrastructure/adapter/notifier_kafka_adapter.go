package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"bloom/internal/pkg/mq"
	"bloom/internal/service/checkout/port"
)

// NotifierKafkaAdapter implements port.OrderNotifier by publishing order
// events to the notification topic. The push-gateway fans them out to
// connected dashboards.
type NotifierKafkaAdapter struct {
	writer *kafka.Writer
}

func NewNotifierKafkaAdapter(writer *kafka.Writer) *NotifierKafkaAdapter {
	return &NotifierKafkaAdapter{writer: writer}
}

func (a *NotifierKafkaAdapter) Broadcast(ctx context.Context, event *port.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}
	return errors.Wrap(
		mq.ProduceMessage(ctx, a.writer, []byte(event.OrderNumber), payload),
		"produce order notification")
}
