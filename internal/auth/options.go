// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
)

// DefaultStoreTimeout bounds each CredentialStore call made by a flow.
const DefaultStoreTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/zephyr/zephyr/internal/auth")

type flowOptions struct {
	logger       *slog.Logger
	metrics      MetricsRecorder
	storeTimeout time.Duration
}

// Option configures a flow service.
type Option func(*flowOptions)

// WithLogger sets the logger. A nil logger is rejected by the constructor.
func WithLogger(logger *slog.Logger) Option {
	return func(o *flowOptions) { o.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(o *flowOptions) { o.metrics = metrics }
}

// WithStoreTimeout bounds each store call. Non-positive values keep the default.
func WithStoreTimeout(d time.Duration) Option {
	return func(o *flowOptions) {
		if d > 0 {
			o.storeTimeout = d
		}
	}
}

func buildOptions(opts []Option) (flowOptions, error) {
	o := flowOptions{
		logger:       slog.Default(),
		metrics:      nopMetrics{},
		storeTimeout: DefaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		return o, oops.Code("AUTH_INVALID_CONFIG").Errorf("logger is required")
	}
	if o.metrics == nil {
		o.metrics = nopMetrics{}
	}
	return o, nil
}
