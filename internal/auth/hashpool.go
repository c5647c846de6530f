// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"
)

// Hash pool operation names, used as metric labels.
const (
	HashOperationHash   = "hash"
	HashOperationVerify = "verify"
)

// HashPool runs PasswordHasher work on bounded background goroutines so
// concurrent requests are not serialized behind one another's hashing cost.
//
// A caller whose context ends stops waiting immediately; the in-flight hash
// still runs to completion and then frees its slot.
type HashPool struct {
	hasher  PasswordHasher
	sem     *semaphore.Weighted
	metrics MetricsRecorder
	wg      sync.WaitGroup
}

// NewHashPool creates a HashPool allowing at most concurrency simultaneous
// hash operations. A non-positive concurrency uses GOMAXPROCS.
func NewHashPool(hasher PasswordHasher, concurrency int, metrics MetricsRecorder) (*HashPool, error) {
	if hasher == nil {
		return nil, oops.Code("HASH_POOL_INVALID").Errorf("password hasher is required")
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &HashPool{
		hasher:  hasher,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		metrics: metrics,
	}, nil
}

// Hash hashes password on the pool.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	var (
		hash    string
		hashErr error
	)
	if err := p.run(ctx, HashOperationHash, func() {
		hash, hashErr = p.hasher.Hash(password)
	}); err != nil {
		return "", err
	}
	return hash, hashErr
}

// Verify checks password against encodedHash on the pool.
// The error is non-nil only when ctx ended before the result was available.
func (p *HashPool) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	var ok bool
	if err := p.run(ctx, HashOperationVerify, func() {
		ok = p.hasher.Verify(password, encodedHash)
	}); err != nil {
		return false, err
	}
	return ok, nil
}

// Wait blocks until every started operation has finished.
func (p *HashPool) Wait() {
	p.wg.Wait()
}

func (p *HashPool) run(ctx context.Context, operation string, work func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return oops.Code("HASH_POOL_CANCELLED").
			With("operation", operation).
			With("stage", "acquire").
			Wrap(err)
	}

	done := make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		defer close(done)

		start := time.Now()
		work()
		p.metrics.ObserveHash(operation, time.Since(start))
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return oops.Code("HASH_POOL_CANCELLED").
			With("operation", operation).
			With("stage", "wait").
			Wrap(ctx.Err())
	}
}
