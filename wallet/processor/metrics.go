package processor

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type processorMetrics struct {
	transfersCompleted metric.Int64Counter
	transfersFailed    metric.Int64Counter
	transfersRetried   metric.Int64Counter
	drainLatency       metric.Float64Histogram
	queueDepth         metric.Int64Gauge
}

func newProcessorMetrics(provider metric.MeterProvider) (processorMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter("wallet.processor")

	var (
		metrics processorMetrics
		err     error
	)

	metrics.transfersCompleted, err = meter.Int64Counter(
		"wallet.transfers.completed",
		metric.WithDescription("Number of transfers confirmed by the remote ledger"),
		metric.WithUnit("{transfer}"),
	)
	if err != nil {
		return processorMetrics{}, fmt.Errorf("create wallet.transfers.completed counter: %w", err)
	}

	metrics.transfersFailed, err = meter.Int64Counter(
		"wallet.transfers.failed",
		metric.WithDescription("Number of transfers that permanently failed"),
		metric.WithUnit("{transfer}"),
	)
	if err != nil {
		return processorMetrics{}, fmt.Errorf("create wallet.transfers.failed counter: %w", err)
	}

	metrics.transfersRetried, err = meter.Int64Counter(
		"wallet.transfers.retried",
		metric.WithDescription("Number of transient submission failures scheduled for retry"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return processorMetrics{}, fmt.Errorf("create wallet.transfers.retried counter: %w", err)
	}

	metrics.drainLatency, err = meter.Float64Histogram(
		"wallet.drain.latency",
		metric.WithDescription("Time taken per drain cycle"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return processorMetrics{}, fmt.Errorf("create wallet.drain.latency histogram: %w", err)
	}

	metrics.queueDepth, err = meter.Int64Gauge(
		"wallet.queue.depth",
		metric.WithDescription("Number of transfers still pending after a drain cycle"),
		metric.WithUnit("{transfer}"),
	)
	if err != nil {
		return processorMetrics{}, fmt.Errorf("create wallet.queue.depth gauge: %w", err)
	}

	return metrics, nil
}
