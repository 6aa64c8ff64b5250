package app

import (
	"context"
	"fmt"

	kafka_impl "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/broker/kafka"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	redis_cache "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/dealer/cache/redis"
	postgres_repo "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/dealer/db/postgres"
	minio_repo "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/image/cloud/minio"
	dealer_uc "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/dealer"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/processor"

	"github.com/redis/go-redis/v9"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

// Infra holds the stores shared by the API server and the image worker.
type Infra struct {
	DB       *dbpg.DB
	Redis    *redis.Client
	Dealers  *postgres_repo.DealersRepository
	Cache    *redis_cache.LocalCache
	Pipeline *processor.ImageProcessor
	Files    *minio_repo.FileRepository
	Remote   bool
}

func NewInfra(ctx context.Context, cfg *config.Config, logger *zlog.Zerolog) (*Infra, error) {
	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := redis_cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		db.Master.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	infra := &Infra{
		DB:      db,
		Redis:   rdb,
		Dealers: postgres_repo.NewDealersRepository(db, cfg.DefaultRetryStrategy()),
		Cache:   redis_cache.NewLocalCache(rdb),
	}

	if cfg.MinIO.Disabled {
		logger.Warn().Msg("Object storage disabled, images will be stored inline")
		infra.Pipeline = processor.NewImageProcessor(nil, cfg.Pipeline, logger)
		return infra, nil
	}

	fileRepo, err := minio_repo.NewMinIORepository(ctx, cfg.MinIO, logger)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("failed to create file repository: %w", err)
	}

	infra.Pipeline = processor.NewImageProcessor(fileRepo, cfg.Pipeline, logger)
	infra.Files = fileRepo
	infra.Remote = true
	return infra, nil
}

// NewDealerUsecase builds the catalog on top of the shared stores. Queued
// uploads need object storage to park their bytes in.
func (i *Infra) NewDealerUsecase(cfg *config.Config, producer *kafka_impl.ProducerClient, logger *zlog.Zerolog) *dealer_uc.DealerUsecase {
	var uc *dealer_uc.DealerUsecase
	if producer != nil {
		uc = dealer_uc.NewDealerUsecase(i.Dealers, i.Cache, i.Pipeline, producer, logger, cfg.Carousel.MaxSize, i.Remote)
	} else {
		uc = dealer_uc.NewDealerUsecase(i.Dealers, i.Cache, i.Pipeline, nil, logger, cfg.Carousel.MaxSize, i.Remote)
	}
	if i.Files != nil {
		uc.UseStaging(i.Files)
	}
	return uc
}

func (i *Infra) Close() {
	if i.Redis != nil {
		i.Redis.Close()
	}
	if i.DB != nil && i.DB.Master != nil {
		i.DB.Master.Close()
	}
}
