package worker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/app"
	kafka_impl "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/broker/kafka"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/worker"

	"github.com/wb-go/wbf/zlog"
)

type Worker struct {
	cfg      *config.Config
	logger   *zlog.Zerolog
	infra    *app.Infra
	consumer *kafka_impl.ConsumerClient
	worker   *worker.Worker
}

func NewWorker(cfg *config.Config, logger *zlog.Zerolog) (*Worker, error) {
	infra, err := app.NewInfra(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	consumer := kafka_impl.NewConsumerClient(cfg, logger)

	// The worker only applies queued uploads, so it never produces tasks.
	dealerUsecase := infra.NewDealerUsecase(cfg, nil, logger)

	return &Worker{
		cfg:      cfg,
		logger:   logger,
		infra:    infra,
		consumer: consumer,
		worker:   worker.NewWorker(consumer, dealerUsecase, logger, cfg.Worker.Concurrency, cfg.TaskRetryStrategy()),
	}, nil
}

func (w *Worker) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigChan
		w.logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
		cancel()
	}()

	w.worker.Run(ctx)

	if err := w.consumer.Close(); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to close consumer")
	}
	w.infra.Close()

	w.logger.Info().Msg("Worker stopped")
	return nil
}
