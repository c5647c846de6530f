// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package web

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyr/zephyr/internal/auth"
)

type fakeRegistrar struct {
	outcome auth.RegistrationOutcome
	calls   []auth.RegistrationRequest
}

func (f *fakeRegistrar) Register(_ context.Context, req auth.RegistrationRequest) auth.RegistrationOutcome {
	f.calls = append(f.calls, req)
	return f.outcome
}

type fakeAuthenticator struct {
	result      auth.LoginResult
	identifiers []string
	passwords   []string
}

func (f *fakeAuthenticator) Login(_ context.Context, identifier, password string) auth.LoginResult {
	f.identifiers = append(f.identifiers, identifier)
	f.passwords = append(f.passwords, password)
	return f.result
}

func newTestRouter(reg Registrar, authn Authenticator, logs *bytes.Buffer) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	if logs != nil {
		logger = slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return NewRouter(RouterDeps{
		Registrar:     reg,
		Authenticator: authn,
		Logger:        logger,
		MaxBodyBytes:  1024,
	})
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registrationForm() url.Values {
	return url.Values{
		"username":  {"a@b.com"},
		"password":  {"password1"},
		"role":      {"reserver"},
		"birthdate": {"1990-05-17"},
	}
}

func TestRegister_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    auth.RegistrationOutcome
		wantStatus int
		wantBody   string
	}{
		{"registered", auth.Registered, http.StatusOK, "User registered successfully!"},
		{"invalid input", auth.RegistrationInvalidInput, http.StatusBadRequest, "Invalid input data. Please try again."},
		{"duplicate", auth.RegistrationDuplicateIdentifier, http.StatusConflict, msgDuplicate},
		{"store unavailable", auth.RegistrationStoreUnavailable, http.StatusInternalServerError, "Database error. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistrar{outcome: tt.outcome}
			rec := postForm(t, newTestRouter(reg, nil, nil), "/register", registrationForm())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRegister_PassesFormFields(t *testing.T) {
	reg := &fakeRegistrar{outcome: auth.Registered}
	postForm(t, newTestRouter(reg, nil, nil), "/register", registrationForm())

	require.Len(t, reg.calls, 1)
	got := reg.calls[0]
	assert.Equal(t, "a@b.com", got.Identifier)
	assert.Equal(t, "password1", got.Password)
	assert.Equal(t, auth.RoleReserver, got.Role)
	assert.Equal(t, time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC), got.Birthdate)
}

func TestRegister_EmptyBirthdateLeavesZero(t *testing.T) {
	reg := &fakeRegistrar{outcome: auth.Registered}
	form := registrationForm()
	form.Del("birthdate")

	rec := postForm(t, newTestRouter(reg, nil, nil), "/register", form)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, reg.calls, 1)
	assert.True(t, reg.calls[0].Birthdate.IsZero())
}

func TestRegister_UnparseableBirthdateRejectedBeforeFlow(t *testing.T) {
	reg := &fakeRegistrar{outcome: auth.Registered}
	form := registrationForm()
	form.Set("birthdate", "17/05/1990")

	rec := postForm(t, newTestRouter(reg, nil, nil), "/register", form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidInput, rec.Body.String())
	assert.Empty(t, reg.calls)
}

func TestRegister_MultipartForm(t *testing.T) {
	reg := &fakeRegistrar{outcome: auth.Registered}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range registrationForm() {
		require.NoError(t, mw.WriteField(k, v[0]))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(reg, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, reg.calls, 1)
	assert.Equal(t, "a@b.com", reg.calls[0].Identifier)
}

func TestRegister_BodyTooLarge(t *testing.T) {
	reg := &fakeRegistrar{outcome: auth.Registered}
	form := registrationForm()
	form.Set("password", strings.Repeat("x", 4096))

	rec := postForm(t, newTestRouter(reg, nil, nil), "/register", form)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, reg.calls)
}

func TestRegisterForm_ServesPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&fakeRegistrar{}, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/register">`)
}

func TestLogin_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name       string
		result     auth.LoginResult
		wantStatus int
		wantBody   string
	}{
		{"authenticated", auth.LoginResult{Outcome: auth.Authenticated, Role: auth.RoleReserver, AuditRecorded: true}, http.StatusOK, msgAuthenticated},
		{"audit not recorded", auth.LoginResult{Outcome: auth.Authenticated, Role: auth.RoleReserver}, http.StatusOK, msgAuthenticated},
		{"invalid credentials", auth.LoginResult{Outcome: auth.LoginInvalidCredentials}, http.StatusUnauthorized, msgInvalidCredentials},
		{"store unavailable", auth.LoginResult{Outcome: auth.LoginStoreUnavailable}, http.StatusInternalServerError, msgStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := &fakeAuthenticator{result: tt.result}
			rec := postForm(t, newTestRouter(nil, authn, nil), "/login", url.Values{
				"username": {"a@b.com"},
				"password": {"password1"},
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, []string{"a@b.com"}, authn.identifiers)
			assert.Equal(t, []string{"password1"}, authn.passwords)
		})
	}
}

func TestRouter_UnconfiguredRoutesAreAbsent(t *testing.T) {
	h := newTestRouter(nil, nil, nil)

	rec := postForm(t, h, "/login", url.Values{"username": {"a@b.com"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// GET /register is always served, so the missing POST is a method mismatch.
	rec = postForm(t, h, "/register", registrationForm())
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
