package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/sportsbook-risk-engine/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *kafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishAllocationReport serializa e publica o relatório do lote.
// A chave usa o BookID para manter a ordem por book na partição.
func (p *KafkaPublisher) PublishAllocationReport(ctx context.Context, e events.AllocationReport) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.BookID),
		Value: b,
	})
}
