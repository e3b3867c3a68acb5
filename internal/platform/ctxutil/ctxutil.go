// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/lppm/internal/platform/ctxkey"
	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithIdentity returns a new context carrying the authenticated caller and the
// token they presented.
func WithIdentity(ctx context.Context, identity *sec.AuthClaims, rawToken string) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyIdentity, identity)
	return context.WithValue(ctx, ctxkey.KeyRawToken, rawToken)
}

// GetIdentity retrieves the authenticated caller, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *sec.AuthClaims {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return identity
}

// GetRawToken retrieves the bearer token of an authenticated request.
func GetRawToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkey.KeyRawToken).(string)
	return token
}

// WithAuthFailure records why the presented credential was rejected, so a
// later guard can answer with the matching 401 message.
func WithAuthFailure(ctx context.Context, reason error) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAuthFailure, reason)
}

// GetAuthFailure returns the recorded rejection reason, or nil.
func GetAuthFailure(ctx context.Context) error {
	reason, _ := ctx.Value(ctxkey.KeyAuthFailure).(error)
	return reason
}
