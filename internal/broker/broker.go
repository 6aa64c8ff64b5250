package broker

import (
	"context"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
)

type Message struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
}

type Producer interface {
	SendTask(ctx context.Context, task *domain.ImageTask) error
	Close() error
}

type Consumer interface {
	Fetch(ctx context.Context) (*Message, error)
	Commit(ctx context.Context, msg *Message) error
	Start(ctx context.Context, out chan<- *Message)
	Close() error
}
