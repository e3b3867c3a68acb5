// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/ctxutil"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Authentication

// RequestAuthenticator turns an Authorization header value into the caller's identity.
//
// It returns [sec.ErrNoToken] when no bearer credential is present, an error
// wrapping [sec.ErrInvalidToken] when one is present but rejected, and any
// other error when a backing store could not be consulted.
type RequestAuthenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error)
}

// Authenticate resolves the caller from the Authorization header.
//
// # Flow
//  1. No bearer credential: the request proceeds as anonymous.
//  2. Rejected credential: the request proceeds as anonymous with the
//     rejection recorded, so [RequireAuth] can answer "Invalid token".
//  3. Accepted credential: the identity is injected into the context.
//
// Public routes (login, health) therefore keep working for callers holding a
// stale token. A store outage fails closed with 503.
func Authenticate(authenticator RequestAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)

			identity, err := authenticator.Authenticate(request.Context(), header)
			switch {
			case err == nil:
				token := strings.TrimPrefix(header, constants.BearerPrefix)
				ctx := ctxutil.WithIdentity(request.Context(), identity, token)

				// Downstream log lines carry the caller.
				logger := ctxutil.GetLogger(ctx).With(
					slog.String("user_id", identity.UserID()),
					slog.String("role", identity.Role.String()),
				)
				ctx = ctxutil.WithLogger(ctx, logger)

				next.ServeHTTP(writer, request.WithContext(ctx))

			case errors.Is(err, sec.ErrNoToken):
				next.ServeHTTP(writer, request)

			case errors.Is(err, sec.ErrInvalidToken):
				// The cause stays server-side; clients only ever see "Invalid token".
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_rejected",
					slog.String("reason", rejectionClass(err)),
				)
				RecordAuthAttempt("token", "rejected")
				ctx := ctxutil.WithAuthFailure(request.Context(), err)
				next.ServeHTTP(writer, request.WithContext(ctx))

			default:
				respond.Error(writer, request, apperr.ServiceUnavailable("Authentication is temporarily unavailable").WithCause(err))
			}
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, unauthenticated(request.Context()))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Authorization

// RequireRole blocks authenticated callers whose role is not in roles.
//
// It implies [RequireAuth]. The 403 body names the accepted roles and echoes
// the caller's role.
func RequireRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, unauthenticated(request.Context()))
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(writer, request)
					return
				}
			}

			respond.Error(writer, request, InsufficientRole(roles, identity.Role))
		})
	}
}

// RequireElevated admits only the administrative role class.
func RequireElevated(next http.Handler) http.Handler {
	return RequireRole(sec.RoleSuperAdmin, sec.RoleLPPMAdmin, sec.RoleAdmin)(next)
}

// InsufficientRole builds the 403 returned when a caller's role is not accepted.
func InsufficientRole(required []sec.Role, current sec.Role) *apperr.AppError {
	names := make([]string, len(required))
	for index, role := range required {
		names[index] = role.String()
	}

	return apperr.InsufficientPermissions(fmt.Sprintf(
		"Insufficient permissions: requires one of [%s], current role is %s",
		strings.Join(names, ", "), current,
	))
}

// # Helpers

// unauthenticated picks the 401 message matching how authentication failed.
func unauthenticated(ctx context.Context) *apperr.AppError {
	if ctxutil.GetAuthFailure(ctx) != nil {
		return apperr.Unauthorized("Invalid token")
	}
	return apperr.Unauthorized("No token provided")
}

// rejectionClass names the failure class for logs without exposing token content.
func rejectionClass(err error) string {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return "expired"
	case errors.Is(err, sec.ErrInvalidSignature):
		return "signature"
	case errors.Is(err, sec.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, sec.ErrTokenRevoked):
		return "revoked"
	default:
		return "identity"
	}
}
