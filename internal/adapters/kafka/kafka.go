package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"reading-service/internal/models"

	"github.com/IBM/sarama"
)

// InitKafkaProducer builds a synchronous producer that waits for all
// in-sync replicas and hashes keys to partitions.
func InitKafkaProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = clientID

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// BalanceEventProducer writes balance change events keyed by user, so every
// event for one user lands on the same partition in order.
type BalanceEventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewBalanceEventProducer(producer sarama.SyncProducer, topic string) *BalanceEventProducer {
	return &BalanceEventProducer{producer: producer, topic: topic}
}

func (p *BalanceEventProducer) PublishBalanceEvent(ctx context.Context, event models.BalanceEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode balance event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("reason"), Value: []byte(event.Reason)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish balance event: %w", err)
	}

	slog.Debug("Balance event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"userID", event.UserID,
		"reason", event.Reason,
	)
	return nil
}

func (p *BalanceEventProducer) Close() error {
	return p.producer.Close()
}
