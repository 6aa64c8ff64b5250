package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafka_impl "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/broker/kafka"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	dealer_h "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/dealer"
	image_h "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/image"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/router"

	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	infra    *Infra
	producer *kafka_impl.ProducerClient
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	infra, err := NewInfra(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	producer := kafka_impl.NewProducerClient(cfg)

	dealerUsecase := infra.NewDealerUsecase(cfg, producer, logger)

	h := &router.Handler{
		ImageHandler:  image_h.NewImageHandler(infra.Pipeline, logger, cfg.Pipeline.MaxUploadBytes),
		DealerHandler: dealer_h.NewDealerHandler(dealerUsecase, logger, cfg.Pipeline.MaxUploadBytes, cfg.Carousel.MaxSize),
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      router.SetupRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		infra:    infra,
		producer: producer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		a.close()
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		a.close()
		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close producer")
		}
	}
	a.infra.Close()
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
