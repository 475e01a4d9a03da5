package processor

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/LerianStudio/lib-wallet/wallet/events"
)

const (
	defaultMaxRetries  = 5
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffCap  = 8 * time.Second
)

// Config controls retry and backoff behavior.
type Config struct {
	// MaxRetries is the number of submission tries before a transfer is
	// permanently failed.
	MaxRetries int
	// BackoffBase is the delay after the first transient failure.
	BackoffBase time.Duration
	// BackoffCap bounds the exponential backoff delay.
	BackoffCap time.Duration
	// MeterProvider overrides the default global meter provider when set.
	MeterProvider metric.MeterProvider
}

// DefaultConfig returns the baseline processor configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  defaultMaxRetries,
		BackoffBase: defaultBackoffBase,
		BackoffCap:  defaultBackoffCap,
	}
}

func (cfg *Config) normalize() {
	defaults := DefaultConfig()

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}

	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaults.BackoffBase
	}

	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = defaults.BackoffCap
	}
}

// Option mutates processor configuration at construction.
type Option func(*Processor)

// WithMaxRetries sets the number of submission tries before permanent failure.
func WithMaxRetries(maxRetries int) Option {
	return func(processor *Processor) {
		if maxRetries > 0 {
			processor.cfg.MaxRetries = maxRetries
		}
	}
}

// WithBackoffBase sets the delay after the first transient failure.
func WithBackoffBase(base time.Duration) Option {
	return func(processor *Processor) {
		if base > 0 {
			processor.cfg.BackoffBase = base
		}
	}
}

// WithBackoffCap bounds the exponential backoff delay.
func WithBackoffCap(cap time.Duration) Option {
	return func(processor *Processor) {
		if cap > 0 {
			processor.cfg.BackoffCap = cap
		}
	}
}

// WithRetryClassifier sets the non-retryable error classifier.
func WithRetryClassifier(classifier RetryClassifier) Option {
	return func(processor *Processor) {
		if classifier != nil {
			processor.classifier = classifier
		}
	}
}

// WithPublisher sets the terminal-transition event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(processor *Processor) {
		if publisher != nil {
			processor.publisher = publisher
		}
	}
}

// WithMeterProvider injects a custom meter provider for processor metrics.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(processor *Processor) {
		processor.cfg.MeterProvider = provider
	}
}
