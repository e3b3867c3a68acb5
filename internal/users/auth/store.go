// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// # Identity Data Access

// IdentityFilter narrows identity listings. Nil fields are not filtered.
type IdentityFilter struct {
	Role     *sec.Role
	IsActive *bool

	// Search matches name, email or identity number.
	Search string
}

// IdentityRepository defines the data access contract for portal accounts.
//
// Soft-deleted rows are invisible to every method.
type IdentityRepository interface {

	/*
		FindByEmail returns the account with exactly the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Identity: Hydrated entity, active or not
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Identity: Hydrated entity, active or not
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		TouchLastLogin records a successful login time.

		Parameters:
		  - context: context.Context
		  - id: string
		  - at: time.Time

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error

	/*
		UpdatePassword replaces only the account's password digest.

		Parameters:
		  - context: context.Context
		  - id: string
		  - digest: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdatePassword(context context.Context, id, digest string) error

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - identity: *Identity

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, identity *Identity) error

	/*
		Update persists the mutable profile, role and status fields.

		Parameters:
		  - context: context.Context
		  - identity: *Identity

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, identity *Identity) error

	/*
		List returns one page of accounts matching filter, newest first.

		Parameters:
		  - context: context.Context
		  - filter: IdentityFilter
		  - page: pagination.Params

		Returns:
		  - pagination.Result[*Identity]: Page and total count
		  - error: Database failures
	*/
	List(context context.Context, filter IdentityFilter, page pagination.Params) (pagination.Result[*Identity], error)

	/*
		SoftDelete marks the account as deleted and inactive.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	SoftDelete(context context.Context, id string) error

	/*
		CountByRole returns the number of live accounts per role.

		Parameters:
		  - context: context.Context

		Returns:
		  - map[sec.Role]int: Counts, roles without accounts omitted
		  - error: Database failures
	*/
	CountByRole(context context.Context) (map[sec.Role]int, error)
}

// # Volatile Data Access

// RevocationStore is the denylist of token ids revoked before their expiry.
type RevocationStore interface {

	/*
		Revoke denylists a token id for ttl, the token's remaining lifetime.

		Parameters:
		  - context: context.Context
		  - tokenID: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Revoke(context context.Context, tokenID string, ttl time.Duration) error

	/*
		IsRevoked reports whether the token id is denylisted.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - bool: True when revoked
		  - error: Storage failures
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}

// LockoutStore counts failed logins per email within a sliding window.
type LockoutStore interface {

	/*
		Failures returns the current failure count and the time left in its window.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - int: Failures recorded in the window
		  - time.Duration: Remaining window, zero when no failures
		  - error: Storage failures
	*/
	Failures(context context.Context, key string) (int, time.Duration, error)

	/*
		RegisterFailure increments the counter, opening a window on the first failure.

		Parameters:
		  - context: context.Context
		  - key: string
		  - window: time.Duration

		Returns:
		  - int: Failures after the increment
		  - error: Storage failures
	*/
	RegisterFailure(context context.Context, key string, window time.Duration) (int, error)

	/*
		Reset clears the counter after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Storage failures
	*/
	Reset(context context.Context, key string) error
}
