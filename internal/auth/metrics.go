// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import "time"

// MetricsRecorder receives flow measurements.
type MetricsRecorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
	RecordAuditFailure()
	ObserveHash(operation string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordRegistration(string)         {}
func (nopMetrics) RecordLogin(string)                {}
func (nopMetrics) RecordAuditFailure()               {}
func (nopMetrics) ObserveHash(string, time.Duration) {}
