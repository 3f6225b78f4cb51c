package notifications

import (
	"context"
	"fmt"
	"time"

	"raffly/internal/shared/config"
	"raffly/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains the push topic and hands messages to the push gateway.
// Delivery is at-least-once; the inbox row already exists, so a duplicate
// push is harmless.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// PushGateway is the outbound transport for push messages. The default
// implementation only logs; a real gateway (APNs, FCM) plugs in here.
type PushGateway interface {
	Deliver(ctx context.Context, msg *PushMessage) error
}

type loggingGateway struct {
	log *logger.Logger
}

func NewLoggingGateway() PushGateway {
	return &loggingGateway{log: logger.GetDefault()}
}

func (g *loggingGateway) Deliver(_ context.Context, msg *PushMessage) error {
	g.log.Info("push delivered",
		"device_id", msg.DeviceID,
		"event_id", msg.EventID.String(),
		"category", msg.Category,
	)
	return nil
}

type kafkaConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	workers int
	gateway PushGateway
	log     *logger.Logger
	cancel  context.CancelFunc
}

func NewKafkaConsumer(cfg config.KafkaConfig, gateway PushGateway) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:   group,
		topics:  []string{cfg.PushTopic},
		workers: cfg.ConsumerWorkers,
		gateway: gateway,
		log:     logger.GetDefault(),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.handleErrors()

	for i := 0; i < c.workers; i++ {
		go c.runWorker(ctx, i)
	}

	c.log.Info("push consumer workers started", "workers", c.workers, "topics", c.topics)
	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &pushHandler{gateway: c.gateway, log: c.log, workerID: workerID}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				c.log.WithError(err).Warn("consumer worker error", "worker", workerID)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) handleErrors() {
	for err := range c.group.Errors() {
		c.log.WithError(err).Warn("consumer group error")
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type pushHandler struct {
	gateway  PushGateway
	log      *logger.Logger
	workerID int
}

func (h *pushHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *pushHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *pushHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.WithError(err).Warn("failed to process push message", "worker", h.workerID)
			}
			// Mark regardless: a poison message must not wedge the partition.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *pushHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	msg, err := PushMessageFromJSON(message.Value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal push message: %w", err)
	}
	return h.gateway.Deliver(ctx, msg)
}
