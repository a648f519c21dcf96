// Package worker runs asynchronous receipt generation so checkout never waits
// on file IO.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"resorthub/internal/domain"
	"resorthub/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ExportTask is a unit of receipt work.
type ExportTask struct {
	Booking    models.Booking `json:"booking"`
	RetryCount int            `json:"retry_count"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ExportWorker consumes receipt tasks from redis or the in-memory queue and
// writes receipt files. Redis gives the queue durability across restarts; the
// channel keeps the worker functional without it.
type ExportWorker struct {
	writer        domain.ReceiptWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan ExportTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	logger        *zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults.
func NewExportWorker(writer domain.ReceiptWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		writer:        writer,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan ExportTask, models.WorkerQueueSize),
		redisQueueKey: "receipts:queue",
		deadLetterKey: "receipts:deadletter",
		pollInterval:  2 * time.Second,
		logger:        logger,
	}
}

// EnqueueReceipt schedules a receipt via redis or the in-memory queue.
func (w *ExportWorker) EnqueueReceipt(ctx context.Context, booking models.Booking) error {
	if booking.BookingID == "" {
		return errors.New("booking id is required")
	}

	task := ExportTask{Booking: booking, CreatedAt: time.Now()}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return errors.New("export queue full")
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			w.processTask(ctx, t)
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *ExportWorker) tryLocalQueue() (ExportTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return ExportTask{}, false
	}
}

func (w *ExportWorker) tryRedis(ctx context.Context) (ExportTask, bool) {
	if w.redis == nil {
		return ExportTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return ExportTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return ExportTask{}, false
	}
	if len(res) != 2 {
		return ExportTask{}, false
	}
	var task ExportTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task")
		return ExportTask{}, false
	}
	return task, true
}

func (w *ExportWorker) processTask(ctx context.Context, task ExportTask) {
	path, err := w.writer.WriteReceipt(task.Booking)
	if err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}
	w.logger.Info().
		Str("booking_id", task.Booking.BookingID).
		Str("file_path", path).
		Msg("receipt written")
}

func (w *ExportWorker) retryOrFail(ctx context.Context, task ExportTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).
			Str("booking_id", task.Booking.BookingID).
			Int("attempts", attempt).
			Msg("receipt task failed permanently")
		w.pushDeadLetter(ctx, task)
		return
	}

	task.RetryCount = attempt
	delay := w.retryPolicy.NextDelay(attempt)
	w.logger.Warn().Err(cause).
		Str("booking_id", task.Booking.BookingID).
		Dur("retry_in", delay).
		Msg("receipt task failed, retrying")

	time.AfterFunc(delay, func() {
		select {
		case w.queue <- task:
		default:
			w.pushDeadLetter(context.Background(), task)
		}
	})
}

func (w *ExportWorker) pushRedis(ctx context.Context, task ExportTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *ExportWorker) pushDeadLetter(ctx context.Context, task ExportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("deadletter push failed")
	}
}
