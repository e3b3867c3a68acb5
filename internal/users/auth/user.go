// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the portal's identity and session layer.

It owns the identity record, verifies login credentials, issues session tokens
and authenticates every request that carries one.

# Architecture

  - Identity: the users.account row, with its role already canonicalized.
  - Service: credential verification, session issuance, logout and refresh.
  - Authenticator: Authorization header → identity, used by the HTTP middleware.
  - Stores: Postgres for identities, Redis for the revocation list and login lockout.
*/
package auth

import (
	"time"

	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Domain Entities

// Identity is a registered portal account.
type Identity struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	Role         sec.Role `json:"role"`
	IsActive     bool     `json:"is_active"`

	// IdentityNumber is the lecturer NIDN or the student NIM.
	IdentityNumber string  `json:"identity_number,omitempty"`
	Department     string  `json:"department,omitempty"`
	Institution    string  `json:"institution,omitempty"`
	ProgramID      *string `json:"program_id,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Claims builds the session claims payload for the identity.
func (identity *Identity) Claims() sec.AuthClaims {
	claims := sec.AuthClaims{
		Email: identity.Email,
		Role:  identity.Role,
		Name:  identity.Name,
	}
	claims.Subject = identity.ID
	return claims
}

// # Field Identifiers

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldRole            = "role"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldToken           = "token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldExpiresAt       = "expires_at"
	FieldUser            = "user"
)
