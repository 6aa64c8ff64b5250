package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type messageSender interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

type ProducerClient struct {
	producer messageSender
	retries  retry.Strategy
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ImageTopic),
		retries:  cfg.DefaultRetryStrategy(),
	}
}

// SendTask publishes the task keyed by dealer id, so tasks of one dealer land
// on one partition in order.
func (p *ProducerClient) SendTask(ctx context.Context, task *domain.ImageTask) error {
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal image task: %w", err)
	}

	if err := p.producer.SendWithRetry(ctx, p.retries, []byte(task.DealerID), value); err != nil {
		return fmt.Errorf("failed to send image task: %w", err)
	}
	return nil
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
