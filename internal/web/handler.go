// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package web

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/zephyr/zephyr/internal/auth"
)

// Response bodies.
const (
	msgRegistered         = "User registered successfully!"
	msgInvalidInput       = "Invalid input data. Please try again."
	msgDuplicate          = "Username is already registered."
	msgStoreUnavailable   = "Database error. Please try again later."
	msgAuthenticated      = "Login successful!"
	msgInvalidCredentials = "Invalid username or password."
	msgBodyTooLarge       = "Request body too large."
	msgInternalError      = "Internal server error."
)

// Form field names.
const (
	fieldUsername  = "username"
	fieldPassword  = "password"
	fieldRole      = "role"
	fieldBirthdate = "birthdate"
)

// multipartMemory is the in-memory limit for multipart forms. The body
// itself is already capped by limitBody.
const multipartMemory = 1 << 20

//go:embed views/register.html
var registerPage []byte

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, req auth.RegistrationRequest) auth.RegistrationOutcome
}

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) auth.LoginResult
}

type credentialHandler struct {
	registrar     Registrar
	authenticator Authenticator
	logger        *slog.Logger
}

func (h *credentialHandler) registerForm(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may disconnect
	w.Write(registerPage)
}

func (h *credentialHandler) register(w http.ResponseWriter, r *http.Request) {
	if status, msg, ok := h.parseForm(r); !ok {
		writeText(w, status, msg)
		return
	}

	birthdate, err := auth.ParseBirthdate(r.PostForm.Get(fieldBirthdate))
	if err != nil {
		writeText(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	outcome := h.registrar.Register(r.Context(), auth.RegistrationRequest{
		Identifier: r.PostForm.Get(fieldUsername),
		Password:   r.PostForm.Get(fieldPassword),
		Role:       auth.Role(r.PostForm.Get(fieldRole)),
		Birthdate:  birthdate,
	})

	switch outcome {
	case auth.Registered:
		writeText(w, http.StatusOK, msgRegistered)
	case auth.RegistrationInvalidInput:
		writeText(w, http.StatusBadRequest, msgInvalidInput)
	case auth.RegistrationDuplicateIdentifier:
		writeText(w, http.StatusConflict, msgDuplicate)
	default:
		writeText(w, http.StatusInternalServerError, msgStoreUnavailable)
	}
}

func (h *credentialHandler) login(w http.ResponseWriter, r *http.Request) {
	if status, msg, ok := h.parseForm(r); !ok {
		writeText(w, status, msg)
		return
	}

	result := h.authenticator.Login(r.Context(),
		r.PostForm.Get(fieldUsername),
		r.PostForm.Get(fieldPassword))

	switch result.Outcome {
	case auth.Authenticated:
		writeText(w, http.StatusOK, msgAuthenticated)
	case auth.LoginInvalidCredentials:
		writeText(w, http.StatusUnauthorized, msgInvalidCredentials)
	default:
		writeText(w, http.StatusInternalServerError, msgStoreUnavailable)
	}
}

// parseForm reads an urlencoded or multipart body into r.PostForm.
func (h *credentialHandler) parseForm(r *http.Request) (int, string, bool) {
	var err error
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return 0, "", true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, msgBodyTooLarge, false
	}
	h.logger.DebugContext(r.Context(), "form parse failed", "error", err)
	return http.StatusBadRequest, msgInvalidInput, false
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	w.Write([]byte(body))
}
