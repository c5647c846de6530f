// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

// Package web serves the registration and login endpoints over HTTP.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxBodyBytes caps form bodies when RouterDeps.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 16 << 10

// RouterDeps holds the router's collaborators.
type RouterDeps struct {
	Registrar     Registrar
	Authenticator Authenticator
	Logger        *slog.Logger
	MaxBodyBytes  int64
}

// NewRouter returns the credential HTTP handler.
//
// Middleware order: RequestID, request logging, panic recovery, security
// headers, body limit.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	h := &credentialHandler{
		registrar:     deps.Registrar,
		authenticator: deps.Authenticator,
		logger:        logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(securityHeaders)
	r.Use(limitBody(maxBody))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	r.Get("/register", h.registerForm)
	if deps.Registrar != nil {
		r.Post("/register", h.register)
	}
	if deps.Authenticator != nil {
		r.Post("/login", h.login)
	}

	return r
}
