// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Authentication Constraints

const (
	// TokenType is the scheme advertised next to issued tokens.
	TokenType = "Bearer"

	// MaxEmailLength bounds the login email before any lookup happens.
	MaxEmailLength = 254

	// MaxPasswordLength bounds the plaintext handed to the KDF.
	MaxPasswordLength = 128
)

// # Errors

// ErrNoToken is returned by the [Authenticator] when the request carries no
// bearer credential.
var ErrNoToken = sec.ErrNoToken

// ErrInvalidCredentials is the single login failure: unknown email, inactive
// account and wrong password are indistinguishable.
var ErrInvalidCredentials = apperr.InvalidCredentials("Invalid email or password")

// ErrIdentityUnavailable rejects tokens whose subject is gone or deactivated.
var ErrIdentityUnavailable = errors.New("auth: identity unavailable")
