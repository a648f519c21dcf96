package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resorthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu    sync.Mutex
	err   error
	calls int
	last  models.Booking
}

func (f *fakeWriter) WriteReceipt(booking models.Booking) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = booking
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/receipt_" + booking.BookingID + ".xlsx", nil
}

func (f *fakeWriter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testBooking(code string) models.Booking {
	return models.Booking{
		ID:        "id-" + code,
		BookingID: code,
		UserEmail: "guest@example.com",
		Total:     2950,
		Status:    models.StatusConfirmed,
		BookedAt:  time.Now(),
	}
}

func TestEnqueueReceipt(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("ValidTask", func(t *testing.T) {
		w := NewExportWorker(&fakeWriter{}, nil, RetryPolicy{}, &logger)
		require.NoError(t, w.EnqueueReceipt(context.Background(), testBooking("DHR-111111")))

		task, ok := w.tryLocalQueue()
		require.True(t, ok)
		assert.Equal(t, "DHR-111111", task.Booking.BookingID)
	})

	t.Run("MissingBookingID", func(t *testing.T) {
		w := NewExportWorker(&fakeWriter{}, nil, RetryPolicy{}, &logger)
		err := w.EnqueueReceipt(context.Background(), models.Booking{})
		assert.Error(t, err)
	})
}

func TestProcessTaskSuccess(t *testing.T) {
	logger := zerolog.Nop()
	writer := &fakeWriter{}
	w := NewExportWorker(writer, nil, RetryPolicy{}, &logger)

	ctx := context.Background()
	require.NoError(t, w.EnqueueReceipt(ctx, testBooking("DHR-222222")))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, task)

	assert.Equal(t, 1, writer.callCount())
	assert.Equal(t, "DHR-222222", writer.last.BookingID)
}

func TestProcessTaskRetry(t *testing.T) {
	logger := zerolog.Nop()
	writer := &fakeWriter{err: errors.New("disk full")}
	w := NewExportWorker(writer, nil, RetryPolicy{MaxRetries: 3, InitialDelay: 10 * time.Millisecond}, &logger)

	ctx := context.Background()
	require.NoError(t, w.EnqueueReceipt(ctx, testBooking("DHR-333333")))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, task)

	// Failed task is rescheduled onto the queue with an incremented count.
	require.Eventually(t, func() bool {
		retried, ok := w.tryLocalQueue()
		if !ok {
			return false
		}
		assert.Equal(t, 1, retried.RetryCount)
		return true
	}, time.Second, 5*time.Millisecond)
}

func TestProcessTaskFailPermanently(t *testing.T) {
	logger := zerolog.Nop()
	writer := &fakeWriter{err: errors.New("fatal")}
	w := NewExportWorker(writer, nil, RetryPolicy{MaxRetries: 1}, &logger)

	ctx := context.Background()
	task := ExportTask{Booking: testBooking("DHR-444444")}
	w.processTask(ctx, task)

	// No redis configured, so the task is dropped without rescheduling.
	time.Sleep(20 * time.Millisecond)
	_, ok := w.tryLocalQueue()
	assert.False(t, ok)
}

func TestStartDrainsQueue(t *testing.T) {
	logger := zerolog.Nop()
	writer := &fakeWriter{}
	w := NewExportWorker(writer, nil, RetryPolicy{}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueReceipt(ctx, testBooking("DHR-555555")))
	require.NoError(t, w.EnqueueReceipt(ctx, testBooking("DHR-666666")))

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return writer.callCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
	d1 := policy.NextDelay(1)
	d2 := policy.NextDelay(2)
	d3 := policy.NextDelay(5)

	assert.Equal(t, time.Second, d1)
	assert.Equal(t, 2*time.Second, d2)
	assert.Equal(t, 5*time.Second, d3)
}
