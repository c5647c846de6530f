// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error carrying code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with key set to value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertContextOmits asserts that no context value of err equals secret,
// under any key. Use it to check that identifiers and passwords stay out of
// error context.
func AssertContextOmits(t *testing.T, err error, secret string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	for key, v := range oopsErr.Context() {
		if s, isString := v.(string); isString {
			assert.NotEqual(t, secret, s, "context key %q holds a secret value", key)
		}
	}
	assert.NotContains(t, oopsErr.Error(), secret)
}
