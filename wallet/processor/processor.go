package processor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/LerianStudio/lib-wallet/wallet/backoff"
	"github.com/LerianStudio/lib-wallet/wallet/events"
	"github.com/LerianStudio/lib-wallet/wallet/gateway"
	"github.com/LerianStudio/lib-wallet/wallet/ledger"
	libLog "github.com/LerianStudio/lib-wallet/wallet/log"
	"github.com/LerianStudio/lib-wallet/wallet/registry"
)

// AvailabilityReporter reports effective network availability.
// Satisfied by *connectivity.Monitor.
type AvailabilityReporter interface {
	Available() bool
}

// Processor drains pending transfers against the remote ledger.
type Processor struct {
	registry   *registry.Registry
	balances   *ledger.BalanceLedger
	client     gateway.Client
	monitor    AvailabilityReporter
	classifier RetryClassifier
	publisher  events.Publisher
	logger     libLog.Logger
	tracer     trace.Tracer
	cfg        Config

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	drainMu  sync.Mutex
	draining bool
	drainWg  sync.WaitGroup
	sleep    func(ctx context.Context, duration time.Duration) error

	metrics processorMetrics
}

// DrainResult captures one drain cycle outcome.
type DrainResult struct {
	Completed int
	Failed    int
	Retried   int
}

// New creates a queue processor.
func New(
	transactionRegistry *registry.Registry,
	balanceLedger *ledger.BalanceLedger,
	client gateway.Client,
	monitor AvailabilityReporter,
	logger libLog.Logger,
	tracer trace.Tracer,
	opts ...Option,
) (*Processor, error) {
	if transactionRegistry == nil {
		return nil, ErrRegistryRequired
	}

	if balanceLedger == nil {
		return nil, ErrLedgerRequired
	}

	if client == nil {
		return nil, ErrClientRequired
	}

	if monitor == nil {
		return nil, ErrMonitorRequired
	}

	if logger == nil {
		logger = libLog.NewNop()
	}

	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("wallet.noop")
	}

	processor := &Processor{
		registry:   transactionRegistry,
		balances:   balanceLedger,
		client:     client,
		monitor:    monitor,
		classifier: DefaultClassifier(),
		publisher:  events.NewNop(),
		logger:     logger,
		tracer:     tracer,
		cfg:        DefaultConfig(),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		sleep:      backoff.SleepWithContext,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(processor)
		}
	}

	processor.cfg.normalize()

	metrics, err := newProcessorMetrics(processor.cfg.MeterProvider)
	if err != nil {
		return nil, err
	}

	processor.metrics = metrics

	return processor, nil
}

// Wake signals the worker loop that pending work may exist. Signals collapse:
// waking an already-signaled processor is a no-op.
func (processor *Processor) Wake() {
	select {
	case processor.wake <- struct{}{}:
	default:
	}
}

// Run owns the queue: it drains once on start and then on every wake signal
// until Stop is called or ctx is cancelled. Having exactly one worker makes
// the single-flight guarantee implicit for all queue mutations.
func (processor *Processor) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	processor.drainCycle(ctx)

	for {
		select {
		case <-processor.stop:
			return nil
		case <-ctx.Done():
			return nil
		case <-processor.wake:
			processor.drainCycle(ctx)
		}
	}
}

func (processor *Processor) drainCycle(ctx context.Context) {
	if _, err := processor.DrainOnce(ctx); err != nil {
		processor.logger.Log(ctx, libLog.LevelDebug, "drain skipped", libLog.Err(err))
	}
}

// Stop signals the worker loop to stop.
func (processor *Processor) Stop() {
	processor.stopOnce.Do(func() {
		close(processor.stop)
	})
}

// Shutdown stops the worker and waits for an in-flight drain to finish.
func (processor *Processor) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	processor.Stop()

	done := make(chan struct{})

	go func() {
		processor.drainWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DrainOnce processes pending transfers until none remain, availability is
// lost, or ctx is cancelled.
//
// When effective connectivity is unavailable the drain is an immediate no-op:
// no queue capacity is consumed and no attempts counter moves. A concurrent
// drain returns ErrDrainInProgress; the guard is released on every exit path.
func (processor *Processor) DrainOnce(ctx context.Context) (DrainResult, error) {
	var result DrainResult

	if ctx == nil {
		ctx = context.Background()
	}

	if !processor.monitor.Available() {
		return result, nil
	}

	if !processor.registerDrain() {
		return result, ErrDrainInProgress
	}

	defer processor.clearDrain()

	ctx, span := processor.tracer.Start(ctx, "wallet.processor.drain")
	defer span.End()

	start := time.Now().UTC()
	interrupted := false

	for !interrupted {
		if ctx.Err() != nil {
			break
		}

		// Connectivity loss interrupts the drain before the next submission;
		// an in-flight submission already ran to completion by this point.
		if !processor.monitor.Available() {
			break
		}

		next, ok := processor.registry.NextPending()
		if !ok {
			break
		}

		if next.Attempts >= processor.cfg.MaxRetries {
			processor.markFailed(ctx, next, "retries exhausted")

			result.Failed++

			continue
		}

		err := processor.client.Submit(ctx, gateway.SubmitInput{
			Amount:         next.Amount,
			Recipient:      next.Recipient,
			IdempotencyKey: next.IdempotencyKey,
		})

		switch {
		case err == nil:
			processor.markCompleted(ctx, next)

			result.Completed++

		case processor.classifier.IsNonRetryable(err):
			processor.logger.Log(ctx, libLog.LevelWarn, "transfer submission rejected",
				libLog.String("transaction_id", next.ID.String()),
				libLog.Err(err),
			)
			processor.markFailed(ctx, next, err.Error())

			result.Failed++

		default:
			// Transient and unclassified failures both retry.
			result.Retried++

			interrupted = processor.retryLater(ctx, next, err)
		}
	}

	processor.recordDrain(ctx, result, start)

	span.SetAttributes(
		attribute.Int("wallet.drain.completed", result.Completed),
		attribute.Int("wallet.drain.failed", result.Failed),
		attribute.Int("wallet.drain.retried", result.Retried),
	)

	return result, nil
}

func (processor *Processor) markCompleted(ctx context.Context, next registry.Transaction) {
	if err := processor.registry.MarkCompleted(next.ID); err != nil {
		processor.logger.Log(ctx, libLog.LevelError, "failed to mark transfer completed",
			libLog.String("transaction_id", next.ID.String()),
			libLog.Err(err),
		)

		return
	}

	if err := processor.balances.ApplyConfirmedDeduction(next.Amount); err != nil {
		processor.logger.Log(ctx, libLog.LevelError, "failed to apply confirmed deduction",
			libLog.String("transaction_id", next.ID.String()),
			libLog.Err(err),
		)
	}

	processor.logger.Log(ctx, libLog.LevelInfo, "transfer completed",
		libLog.String("transaction_id", next.ID.String()),
		libLog.String("amount", next.Amount.String()),
		libLog.Int("attempts", next.Attempts),
	)

	processor.publish(ctx, events.TypeTransferCompleted, next)
}

func (processor *Processor) markFailed(ctx context.Context, next registry.Transaction, reason string) {
	if err := processor.registry.MarkFailed(next.ID); err != nil {
		processor.logger.Log(ctx, libLog.LevelError, "failed to mark transfer failed",
			libLog.String("transaction_id", next.ID.String()),
			libLog.Err(err),
		)

		return
	}

	processor.logger.Log(ctx, libLog.LevelError, "transfer permanently failed",
		libLog.String("transaction_id", next.ID.String()),
		libLog.String("amount", next.Amount.String()),
		libLog.Int("attempts", next.Attempts),
		libLog.String("reason", reason),
	)

	processor.publish(ctx, events.TypeTransferFailed, next)
}

// retryLater increments the attempts counter and blocks the drain for the
// backoff delay. Returns true when the wait was interrupted and the drain
// should stop.
func (processor *Processor) retryLater(ctx context.Context, next registry.Transaction, cause error) bool {
	if err := processor.registry.IncrementAttempts(next.ID); err != nil {
		processor.logger.Log(ctx, libLog.LevelError, "failed to increment attempts",
			libLog.String("transaction_id", next.ID.String()),
			libLog.Err(err),
		)

		return false
	}

	delay := backoff.ExponentialCapped(processor.cfg.BackoffBase, processor.cfg.BackoffCap, next.Attempts+1)

	processor.logger.Log(ctx, libLog.LevelWarn, "transfer submission failed, backing off",
		libLog.String("transaction_id", next.ID.String()),
		libLog.Int("attempts", next.Attempts+1),
		libLog.Any("delay", delay),
		libLog.Err(cause),
	)

	return processor.sleep(ctx, delay) != nil
}

func (processor *Processor) publish(ctx context.Context, eventType string, next registry.Transaction) {
	event := events.TransferEvent{
		Type:          eventType,
		TransactionID: next.ID,
		Amount:        next.Amount,
		Recipient:     next.Recipient,
		Attempts:      next.Attempts,
		OccurredAt:    time.Now().UTC(),
	}

	if err := processor.publisher.Publish(ctx, event); err != nil {
		processor.logger.Log(ctx, libLog.LevelWarn, "failed to publish transfer event",
			libLog.String("transaction_id", next.ID.String()),
			libLog.String("event_type", eventType),
			libLog.Err(err),
		)
	}
}

func (processor *Processor) recordDrain(ctx context.Context, result DrainResult, start time.Time) {
	if processor.metrics.transfersCompleted != nil && result.Completed > 0 {
		processor.metrics.transfersCompleted.Add(ctx, int64(result.Completed))
	}

	if processor.metrics.transfersFailed != nil && result.Failed > 0 {
		processor.metrics.transfersFailed.Add(ctx, int64(result.Failed))
	}

	if processor.metrics.transfersRetried != nil && result.Retried > 0 {
		processor.metrics.transfersRetried.Add(ctx, int64(result.Retried))
	}

	if processor.metrics.drainLatency != nil {
		processor.metrics.drainLatency.Record(ctx, time.Since(start).Seconds())
	}

	if processor.metrics.queueDepth != nil {
		processor.metrics.queueDepth.Record(ctx, processor.pendingDepth())
	}
}

func (processor *Processor) pendingDepth() int64 {
	var depth int64

	for _, transaction := range processor.registry.List() {
		if transaction.Status == registry.StatusPending {
			depth++
		}
	}

	return depth
}

func (processor *Processor) registerDrain() bool {
	processor.drainMu.Lock()
	defer processor.drainMu.Unlock()

	if processor.draining {
		return false
	}

	processor.draining = true
	processor.drainWg.Add(1)

	return true
}

func (processor *Processor) clearDrain() {
	processor.drainMu.Lock()
	defer processor.drainMu.Unlock()

	processor.draining = false
	processor.drainWg.Done()
}
