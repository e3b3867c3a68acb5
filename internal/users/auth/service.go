// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/ctxutil"
	"github.com/taibuivan/lppm/internal/platform/middleware"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/uuid"
)

// # Contracts & Types

// Config holds the session and lockout policy.
type Config struct {
	// TokenTTL is the lifetime of every issued session token.
	TokenTTL time.Duration

	// MaxLoginAttempts is the number of failures that locks an email out. Zero disables lockout.
	MaxLoginAttempts int

	// LockoutWindow is how long failures are remembered.
	LockoutWindow time.Duration
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// Session is a freshly issued session token and the identity it was minted for.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  *Identity
}

// Service implements credential verification and the session lifecycle.
//
// # Review Process
//
// This service is critical for security. Any change to how credentials are
// compared or how tokens are minted must be reviewed with that in mind.
type Service struct {
	identities  IdentityRepository
	revocations RevocationStore
	lockouts    LockoutStore
	hasher      *sec.PasswordHasher
	codec       *sec.TokenCodec
	config      Config
	now         func() time.Time

	// decoy is hashed against when the email is unknown so that a miss costs
	// the same KDF work as a wrong password.
	decoy func() string
}

// NewService constructs the authentication [Service].
func NewService(
	identities IdentityRepository,
	revocations RevocationStore,
	lockouts LockoutStore,
	hasher *sec.PasswordHasher,
	codec *sec.TokenCodec,
	config Config,
	options ...Option,
) *Service {
	service := &Service{
		identities:  identities,
		revocations: revocations,
		lockouts:    lockouts,
		hasher:      hasher,
		codec:       codec,
		config:      config,
		now:         time.Now,
	}

	service.decoy = sync.OnceValue(func() string {
		digest, _ := hasher.Hash(uuid.New())
		return digest
	})

	for _, option := range options {
		option(service)
	}

	return service
}

// # Credential Verification

/*
VerifyCredentials checks an email and password against the identity store.

Description: Unknown email, inactive account and wrong password all fail
with the same [ErrInvalidCredentials]. A correct password stored under a
legacy or weaker digest is upgraded in place; failing to upgrade is logged
and does not fail the login.

Parameters:
  - context: context.Context
  - email: string (exact match)
  - password: string

Returns:
  - *Identity: The verified, active identity
  - error: ErrInvalidCredentials or storage failures
*/
func (service *Service) VerifyCredentials(context context.Context, email, password string) (*Identity, error) {
	identity, err := service.identities.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.hasher.Verify(password, service.decoy())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth_service_find_identity_failed: %w", err)
	}

	ok, needsRehash := service.hasher.Verify(password, identity.PasswordHash)
	if !ok || !identity.IsActive {
		return nil, ErrInvalidCredentials
	}

	if needsRehash {
		service.upgradeDigest(context, identity, password)
	}

	return identity, nil
}

// upgradeDigest re-hashes a verified password with the current parameters.
func (service *Service) upgradeDigest(ctx context.Context, identity *Identity, password string) {
	logger := ctxutil.GetLogger(ctx)

	digest, err := service.hasher.Hash(password)
	if err == nil {
		err = service.identities.UpdatePassword(ctx, identity.ID, digest)
	}
	if err != nil {
		logger.WarnContext(ctx, "password_rehash_failed", slog.String("user_id", identity.ID), slog.Any("error", err))
		return
	}

	identity.PasswordHash = digest
	logger.InfoContext(ctx, "password_rehashed", slog.String("user_id", identity.ID))
}

// # Session Issuance

/*
IssueSession mints a session token for an already verified identity.

Parameters:
  - identity: *Identity

Returns:
  - *Session: Signed token and its expiry
  - error: Codec failures
*/
func (service *Service) IssueSession(identity *Identity) (*Session, error) {
	claims := identity.Claims()
	claims.ID = uuid.New()

	issuedAt := service.now()
	token, err := service.codec.Encode(claims, service.config.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_session_failed: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: time.Unix(issuedAt.Unix(), 0).Add(service.config.TokenTTL).UTC(),
		Identity:  identity,
	}, nil
}

/*
Login verifies credentials and issues a session.

Description: Rejects locked-out emails before any password work, counts
failures toward the lockout, clears them on success and records the login
time in the background.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Token, expiry and identity
  - error: ErrInvalidCredentials, apperr.RateLimited while locked out, or storage failures
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {
	logger := ctxutil.GetLogger(context)
	lockoutKey := strings.ToLower(email)

	if err := service.checkLockout(context, lockoutKey); err != nil {
		middleware.RecordAuthAttempt("login", "locked")
		return nil, err
	}

	identity, err := service.VerifyCredentials(context, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			service.registerFailure(context, lockoutKey)
			middleware.RecordAuthAttempt("login", "failed")
			logger.InfoContext(context, "login_failed")
		}
		return nil, err
	}

	session, err := service.IssueSession(identity)
	if err != nil {
		return nil, err
	}

	if service.config.MaxLoginAttempts > 0 {
		if err := service.lockouts.Reset(context, lockoutKey); err != nil {
			logger.WarnContext(context, "login_lockout_reset_failed", slog.Any("error", err))
		}
	}

	service.touchLastLogin(context, identity.ID)

	middleware.RecordAuthAttempt("login", "succeeded")
	logger.InfoContext(context, "login_succeeded",
		slog.String("user_id", identity.ID),
		slog.String("role", identity.Role.String()),
	)

	return session, nil
}

// checkLockout fails while key has reached the failure limit. A store outage
// blocks logins rather than disabling the limit.
func (service *Service) checkLockout(ctx context.Context, key string) error {
	if service.config.MaxLoginAttempts <= 0 {
		return nil
	}

	failures, remaining, err := service.lockouts.Failures(ctx, key)
	if err != nil {
		return apperr.ServiceUnavailable("Login is temporarily unavailable").WithCause(err)
	}

	if failures >= service.config.MaxLoginAttempts {
		return apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
	}

	return nil
}

func (service *Service) registerFailure(ctx context.Context, key string) {
	if service.config.MaxLoginAttempts <= 0 {
		return
	}
	if _, err := service.lockouts.RegisterFailure(ctx, key, service.config.LockoutWindow); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_failure_count_failed", slog.Any("error", err))
	}
}

// touchLastLogin writes the login time without holding up the response.
func (service *Service) touchLastLogin(parent context.Context, id string) {
	at := service.now().UTC()
	logger := ctxutil.GetLogger(parent)
	detached := context.WithoutCancel(parent)

	go func() {
		ctx, cancel := context.WithTimeout(detached, constants.BackgroundTaskTimeout)
		defer cancel()

		if err := service.identities.TouchLastLogin(ctx, id, at); err != nil {
			logger.WarnContext(ctx, "last_login_touch_failed", slog.String("user_id", id), slog.Any("error", err))
		}
	}()
}

// # Session Lifecycle

/*
Logout revokes the presented token for the rest of its lifetime.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (the authenticated token)

Returns:
  - error: Revocation store failures
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims.ID == "" {
		return nil
	}

	remaining := claims.ExpiresAtTime().Sub(service.now())
	if err := service.revocations.Revoke(context, claims.ID, remaining); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "logout_succeeded")
	return nil
}

/*
Refresh swaps the presented token for a new one.

Description: The identity is re-read so the new token carries the current
role and name. The old token is revoked before the new one is minted.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (the authenticated token)

Returns:
  - *Session: The replacement session
  - error: apperr.Unauthorized for a vanished identity, or storage failures
*/
func (service *Service) Refresh(context context.Context, claims *sec.AuthClaims) (*Session, error) {
	identity, err := service.identities.FindByID(context, claims.UserID())
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}
	if !identity.IsActive {
		return nil, apperr.Unauthorized("Invalid token")
	}

	if err := service.Logout(context, claims); err != nil {
		return nil, err
	}

	return service.IssueSession(identity)
}

/*
Me returns the caller's live identity record.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Identity: Current record
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Me(context context.Context, id string) (*Identity, error) {
	return service.identities.FindByID(context, id)
}

/*
ChangePassword replaces the caller's password after checking the current one.

Parameters:
  - context: context.Context
  - id: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: apperr.InvalidCredentials on a wrong current password, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, id, currentPassword, newPassword string) error {
	identity, err := service.identities.FindByID(context, id)
	if err != nil {
		return err
	}

	if ok, _ := service.hasher.Verify(currentPassword, identity.PasswordHash); !ok {
		return apperr.InvalidCredentials("Current password is incorrect")
	}

	digest, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.identities.UpdatePassword(context, id, digest); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "password_changed")
	return nil
}
