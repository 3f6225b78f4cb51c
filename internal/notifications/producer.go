package notifications

import (
	"context"
	"fmt"
	"time"

	"raffly/internal/shared/config"
	"raffly/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes push messages for the external push transport.
type Producer interface {
	Publish(ctx context.Context, msg *PushMessage) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer creates a sync producer for the push topic. Messages are
// partitioned by device ID so one device's notifications stay ordered.
func NewKafkaProducer(cfg config.KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.PushTopic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, msg *PushMessage) error {
	payload, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.DeviceID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(msg.NotificationID.String())},
			{Key: []byte("category"), Value: []byte(msg.Category)},
		},
		Timestamp: msg.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish push message: %w", err)
	}

	p.log.Debug("push message published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"device_id", msg.DeviceID,
	)
	return nil
}

func (p *kafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
