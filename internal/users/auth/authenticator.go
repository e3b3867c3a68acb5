// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Request Authenticator

// Authenticator resolves bearer tokens into caller identities.
//
// One identity policy is applied to every request:
//   - live: the identity row is re-read by subject; a deleted or deactivated
//     account is unauthenticated, and role and name come from the row.
//   - claims: the decoded claims are trusted as of mint time.
//
// Revoked token ids are rejected under both policies.
type Authenticator struct {
	codec        *sec.TokenCodec
	revocations  RevocationStore
	identities   IdentityRepository
	liveIdentity bool
}

// NewAuthenticator creates an [Authenticator]. identities may be nil when
// liveIdentity is false.
func NewAuthenticator(codec *sec.TokenCodec, revocations RevocationStore, identities IdentityRepository, liveIdentity bool) *Authenticator {
	return &Authenticator{
		codec:        codec,
		revocations:  revocations,
		identities:   identities,
		liveIdentity: liveIdentity,
	}
}

/*
Authenticate reads an Authorization header value.

Description: The "Bearer " prefix is matched case-sensitively. A missing
header, another scheme or an empty token all mean no credential.

Parameters:
  - context: context.Context
  - authorizationHeader: string

Returns:
  - *sec.AuthClaims: The caller
  - error: ErrNoToken, an error wrapping sec.ErrInvalidToken, or a store failure
*/
func (authenticator *Authenticator) Authenticate(context context.Context, authorizationHeader string) (*sec.AuthClaims, error) {
	token, found := strings.CutPrefix(authorizationHeader, constants.BearerPrefix)
	if !found || token == "" {
		return nil, ErrNoToken
	}
	return authenticator.VerifyToken(context, token)
}

/*
VerifyToken authenticates a raw token string.

Description: Decodes and verifies the token, consults the revocation list
and, under the live policy, re-reads the identity. Every rejection wraps
sec.ErrInvalidToken together with its cause; store failures do not.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *sec.AuthClaims: Verified claims, refreshed from the live row when enabled
  - error: Rejection or store failure
*/
func (authenticator *Authenticator) VerifyToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := authenticator.codec.Decode(token)
	if err != nil {
		return nil, reject(err)
	}

	if claims.ID != "" {
		revoked, err := authenticator.revocations.IsRevoked(context, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth_revocation_check_failed: %w", err)
		}
		if revoked {
			return nil, reject(sec.ErrTokenRevoked)
		}
	}

	if !authenticator.liveIdentity {
		return claims, nil
	}

	identity, err := authenticator.identities.FindByID(context, claims.UserID())
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, reject(ErrIdentityUnavailable)
		}
		return nil, fmt.Errorf("auth_identity_lookup_failed: %w", err)
	}
	if !identity.IsActive {
		return nil, reject(ErrIdentityUnavailable)
	}

	claims.Email = identity.Email
	claims.Role = identity.Role
	claims.Name = identity.Name

	return claims, nil
}

func reject(cause error) error {
	return fmt.Errorf("%w: %w", sec.ErrInvalidToken, cause)
}
