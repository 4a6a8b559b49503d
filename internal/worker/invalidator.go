package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/delivery/events"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
)

const (
	// Debounce window - collect events for the same product within this duration.
	// Admin edits arrive in bursts (save product, then each variant row).
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// CatalogCache is the invalidation surface the worker drives
type CatalogCache interface {
	InvalidateCatalogPages(ctx context.Context) error
	InvalidateFilterMetadata(ctx context.Context) error
}

// Invalidator consumes catalog change events and drops stale cache
// entries. Sorting and pagination make every cached page suspect after
// any product change, so one flush covers the lot; debouncing keeps an
// admin editing session from flushing once per keystroke.
type Invalidator struct {
	cache  CatalogCache
	logger *logger.Logger

	// Debouncing state
	mu         sync.Mutex
	pending    map[uuid.UUID]*pendingFlush
	shutdownCh chan struct{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

type pendingFlush struct {
	productID uuid.UUID
	timestamp time.Time
	timer     *time.Timer
}

// NewInvalidator creates a new cache invalidation worker
func NewInvalidator(cache CatalogCache, log *logger.Logger) *Invalidator {
	ctx, cancel := context.WithCancel(context.Background())

	return &Invalidator{
		cache:      cache,
		logger:     log,
		pending:    make(map[uuid.UUID]*pendingFlush),
		shutdownCh: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// HandleEvent processes a catalog change event
func (w *Invalidator) HandleEvent(data []byte) error {
	var event events.CatalogEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal catalog event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]any{
		"type":       event.Type,
		"product_id": event.ProductID.String(),
		"timestamp":  event.Timestamp,
	}).Info("Received catalog event")

	w.scheduleFlush(event.ProductID, event.Timestamp)

	return nil
}

// scheduleFlush implements the debounce: multiple events for the same
// product within the window collapse into a single cache flush.
func (w *Invalidator) scheduleFlush(productID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pending[productID]

	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"product_id":  productID.String(),
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		existing.timer.Stop()
		w.logger.WithFields(map[string]any{
			"product_id": productID.String(),
		}).Debug("Debouncing: resetting timer for product")
	} else {
		w.wg.Add(1)
	}

	timer := time.AfterFunc(debounceWindow, func() {
		w.processFlush(productID)
	})

	w.pending[productID] = &pendingFlush{
		productID: productID,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processFlush drops cached catalog pages and filter metadata, retrying
// with exponential backoff
func (w *Invalidator) processFlush(productID uuid.UUID) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pending, productID)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"product_id": productID.String(),
	}).Info("Flushing catalog cache")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"product_id": productID.String(),
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying cache flush")

			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.flush(ctx)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"product_id": productID.String(),
			"attempt":    attempt + 1,
		}).Error("Failed to flush catalog cache", err)
	}

	// Retries exhausted. Cached entries expire on their own TTL.
	w.logger.WithFields(map[string]any{
		"product_id":  productID.String(),
		"max_retries": maxRetries,
	}).Error("Cache flush failed after all retries", lastErr)
}

func (w *Invalidator) flush(ctx context.Context) error {
	if err := w.cache.InvalidateCatalogPages(ctx); err != nil {
		return fmt.Errorf("failed to invalidate catalog pages: %w", err)
	}
	if err := w.cache.InvalidateFilterMetadata(ctx); err != nil {
		return fmt.Errorf("failed to invalidate filter metadata: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the worker.
// Cancels pending timers and waits for in-flight flushes to complete.
func (w *Invalidator) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down cache invalidator...")

	close(w.shutdownCh)
	w.cancel()

	w.mu.Lock()
	pendingCount := len(w.pending)
	for _, flush := range w.pending {
		flush.timer.Stop()
		w.wg.Done()
	}
	w.pending = make(map[uuid.UUID]*pendingFlush)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_flushes": pendingCount,
	}).Info("Cancelled pending flushes")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight flushes completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending flushes (used for monitoring/testing)
func (w *Invalidator) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
