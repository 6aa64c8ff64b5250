package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/dealer"

	"github.com/redis/go-redis/v9"
)

const (
	keyDealers  = "dealers:local"
	keyLastSync = "dealers:local:last_sync"

	maxWatchRetries = 3
)

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// LocalCache keeps the locally curated dealer list (also the saved carousel
// order) and the time of the last sync.
type LocalCache struct {
	client *redis.Client
}

func NewLocalCache(client *redis.Client) *LocalCache {
	return &LocalCache{client: client}
}

func (c *LocalCache) GetLocalDealers(ctx context.Context) ([]domain.Dealer, error) {
	return readDealers(ctx, c.client)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readDealers(ctx context.Context, cmd getter) ([]domain.Dealer, error) {
	raw, err := cmd.Get(ctx, keyDealers).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Dealer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local dealers: %w", err)
	}

	var dealers []domain.Dealer
	if err := json.Unmarshal(raw, &dealers); err != nil {
		return nil, fmt.Errorf("%w: %v", dealer.ErrCorruptCache, err)
	}
	if dealers == nil {
		dealers = []domain.Dealer{}
	}
	return dealers, nil
}

func (c *LocalCache) SetLocalDealers(ctx context.Context, dealers []domain.Dealer) error {
	if dealers == nil {
		dealers = []domain.Dealer{}
	}

	raw, err := json.Marshal(dealers)
	if err != nil {
		return fmt.Errorf("failed to encode local dealers: %w", err)
	}

	if err := c.client.Set(ctx, keyDealers, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write local dealers: %w", err)
	}
	return nil
}

// RemoveLocalDealer drops one dealer under WATCH so a concurrent write to the
// list is not lost.
func (c *LocalCache) RemoveLocalDealer(ctx context.Context, id string) error {
	txf := func(tx *redis.Tx) error {
		dealers, err := readDealers(ctx, tx)
		if err != nil {
			return err
		}

		kept := make([]domain.Dealer, 0, len(dealers))
		for _, d := range dealers {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(dealers) {
			return nil
		}

		raw, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("failed to encode local dealers: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyDealers, raw, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := c.client.Watch(ctx, txf, keyDealers)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to remove local dealer: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to remove local dealer %s: %w", id, redis.TxFailedErr)
}

func (c *LocalCache) LastSync(ctx context.Context) (*time.Time, error) {
	raw, err := c.client.Get(ctx, keyLastSync).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dealer.ErrCorruptCache, err)
	}
	return &t, nil
}

func (c *LocalCache) MarkSynced(ctx context.Context, at time.Time) error {
	if err := c.client.Set(ctx, keyLastSync, at.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("failed to write last sync: %w", err)
	}
	return nil
}

func (c *LocalCache) Reset(ctx context.Context) error {
	if err := c.client.Del(ctx, keyDealers, keyLastSync).Err(); err != nil {
		return fmt.Errorf("failed to reset local cache: %w", err)
	}
	return nil
}
