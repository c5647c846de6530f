// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zephyr/zephyr/internal/auth"
)

// Metrics holds the credential flow metrics. It implements
// auth.MetricsRecorder.
type Metrics struct {
	RegistrationsTotal *prometheus.CounterVec
	LoginsTotal        *prometheus.CounterVec
	AuditFailuresTotal prometheus.Counter
	HashDuration       *prometheus.HistogramVec
}

// NewMetrics creates the flow metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zephyr_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zephyr_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		AuditFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "zephyr_login_audit_failures_total",
				Help: "Successful logins whose audit record could not be written",
			},
		),
		HashDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zephyr_password_hash_duration_seconds",
				Help:    "Time spent hashing or verifying passwords",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(m.RegistrationsTotal, m.LoginsTotal, m.AuditFailuresTotal, m.HashDuration)
	return m
}

// RecordRegistration counts a registration outcome.
func (m *Metrics) RecordRegistration(outcome string) {
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordLogin counts a login outcome.
func (m *Metrics) RecordLogin(outcome string) {
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// RecordAuditFailure counts a failed audit write.
func (m *Metrics) RecordAuditFailure() {
	m.AuditFailuresTotal.Inc()
}

// ObserveHash records the duration of a hash or verify operation.
func (m *Metrics) ObserveHash(operation string, d time.Duration) {
	m.HashDuration.WithLabelValues(operation).Observe(d.Seconds())
}

var _ auth.MetricsRecorder = (*Metrics)(nil)
