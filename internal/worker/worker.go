package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/broker"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	dealer_uc "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/dealer"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/processor"

	"github.com/sourcegraph/conc"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

var ErrMalformedTask = errors.New("malformed image task")

type taskProcessor interface {
	ProcessImageTask(ctx context.Context, task *domain.ImageTask) (*domain.StoredImage, error)
}

type Worker struct {
	consumer    broker.Consumer
	tasks       taskProcessor
	logger      *zlog.Zerolog
	concurrency int
	retries     retry.Strategy
}

// NewWorker builds a consumer pool. A failing task is retried in place with
// retries; the message is committed once it succeeds or the attempts run out,
// since a commit covers every earlier offset of the partition.
func NewWorker(consumer broker.Consumer, tasks taskProcessor, logger *zlog.Zerolog, concurrency int, retries retry.Strategy) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if retries.Attempts < 1 {
		retries.Attempts = 1
	}
	return &Worker{
		consumer:    consumer,
		tasks:       tasks,
		logger:      logger,
		concurrency: concurrency,
		retries:     retries,
	}
}

// Run consumes until ctx is cancelled. Tasks already taken off the channel
// are finished before Run returns.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info().Int("concurrency", w.concurrency).Msg("Starting worker")

	messages := make(chan *broker.Message, w.concurrency*2)
	w.consumer.Start(ctx, messages)

	var wg conc.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		id := i
		wg.Go(func() {
			w.processWorker(ctx, id, messages)
		})
	}

	w.logger.Info().Msg("Worker started successfully")
	wg.Wait()
	w.logger.Info().Msg("Worker stopped gracefully")
}

func (w *Worker) processWorker(ctx context.Context, id int, messages <-chan *broker.Message) {
	w.logger.Info().Int("worker_id", id).Msg("Worker started")

	// in-flight tasks outlive the shutdown signal
	taskCtx := context.WithoutCancel(ctx)

	for msg := range messages {
		startTime := time.Now()
		w.logger.Debug().Int("worker_id", id).Int("message_size", len(msg.Value)).Msg("Processing message")

		if err := w.handleMessage(taskCtx, id, msg); err != nil {
			w.logger.Error().
				Err(err).
				Int("worker_id", id).
				Int64("offset", msg.Offset).
				Bool("permanent", permanent(err)).
				Msg("Dropping message")
		}

		if commitErr := w.consumer.Commit(taskCtx, msg); commitErr != nil {
			w.logger.Error().
				Err(commitErr).
				Int64("offset", msg.Offset).
				Int("worker_id", id).
				Msg("Failed to commit message")
			continue
		}

		w.logger.Debug().
			Int("worker_id", id).
			Int64("offset", msg.Offset).
			Dur("duration", time.Since(startTime)).
			Msg("Message committed")
	}

	w.logger.Debug().Int("worker_id", id).Msg("Worker stopping")
}

// handleMessage retries transient failures until the strategy gives up.
// Permanent failures end the loop at once.
func (w *Worker) handleMessage(ctx context.Context, workerID int, msg *broker.Message) error {
	var last error
	attempt := 0
	err := retry.DoContext(ctx, w.retries, func() error {
		attempt++
		last = w.safeProcessMessage(ctx, workerID, msg)
		if last == nil || permanent(last) {
			return nil
		}
		w.logger.Warn().
			Err(last).
			Int("worker_id", workerID).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Msg("Image task failed")
		return last
	})
	if err != nil {
		return err
	}
	return last
}

// permanent reports errors that another attempt would hit again.
func permanent(err error) bool {
	return errors.Is(err, ErrMalformedTask) ||
		errors.Is(err, dealer_uc.ErrUploadExpired) ||
		errors.Is(err, dealer_uc.ErrQueueUnavailable) ||
		errors.Is(err, processor.ErrDecodeFailure) ||
		errors.Is(err, processor.ErrSurfaceUnavailable) ||
		errors.Is(err, dealer_uc.ErrDealerNotFound) ||
		errors.Is(err, dealer_uc.ErrInvalidSlot)
}

func (w *Worker) safeProcessMessage(ctx context.Context, workerID int, msg *broker.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Int("worker_id", workerID).
				Interface("panic", r).
				Int64("offset", msg.Offset).
				Msg("Panic recovered while processing message")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processMessage(ctx, msg)
}

func (w *Worker) processMessage(ctx context.Context, msg *broker.Message) error {
	var task domain.ImageTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	if task.DealerID == "" || task.SourcePath == "" {
		return fmt.Errorf("%w: missing dealer id or source path", ErrMalformedTask)
	}

	w.logger.Info().
		Str("task_id", task.ID).
		Str("dealer_id", task.DealerID).
		Str("path", task.Path).
		Int64("offset", msg.Offset).
		Msg("Processing task started")

	stored, err := w.tasks.ProcessImageTask(ctx, &task)
	if err != nil {
		return fmt.Errorf("image task %s failed: %w", task.ID, err)
	}

	w.logger.Info().
		Str("task_id", task.ID).
		Str("dealer_id", task.DealerID).
		Str("method", string(stored.Method)).
		Int64("size", stored.Size).
		Msg("Image task completed")
	return nil
}
