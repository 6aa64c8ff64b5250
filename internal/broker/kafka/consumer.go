package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/broker"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"

	kafka "github.com/segmentio/kafka-go"
	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const fetchErrorBackoff = time.Second

type messageFetcher interface {
	FetchWithRetry(ctx context.Context, strategy retry.Strategy) (kafka.Message, error)
	Commit(ctx context.Context, msg kafka.Message) error
	Close() error
}

type ConsumerClient struct {
	consumer messageFetcher
	retries  retry.Strategy
	logger   *zlog.Zerolog
}

func NewConsumerClient(cfg *config.Config, logger *zlog.Zerolog) *ConsumerClient {
	return &ConsumerClient{
		consumer: wbkafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ImageTopic, cfg.Kafka.GroupID),
		retries:  cfg.DefaultRetryStrategy(),
		logger:   logger,
	}
}

func (c *ConsumerClient) Fetch(ctx context.Context) (*broker.Message, error) {
	msg, err := c.consumer.FetchWithRetry(ctx, c.retries)
	if err != nil {
		return nil, err
	}
	return fromKafka(msg), nil
}

func (c *ConsumerClient) Commit(ctx context.Context, msg *broker.Message) error {
	return c.consumer.Commit(ctx, kafka.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
	})
}

// Start fetches in the background until ctx is done, then closes out.
func (c *ConsumerClient) Start(ctx context.Context, out chan<- *broker.Message) {
	go func() {
		defer close(out)
		for {
			msg, err := c.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				c.logger.Error().Err(err).Msg("Failed to fetch message")
				select {
				case <-ctx.Done():
					return
				case <-time.After(fetchErrorBackoff):
				}
				continue
			}

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (c *ConsumerClient) Close() error {
	return c.consumer.Close()
}

func fromKafka(msg kafka.Message) *broker.Message {
	return &broker.Message{
		Key:       msg.Key,
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}
}
