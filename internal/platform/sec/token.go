// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, session
// token signing, the role enumeration) from the domain logic. Its values are
// constructed once in the composition root and injected into services.
//
// # Token Format
//
// Session tokens are compact, JWT-compatible (HS256) strings:
//
//	base64url(header) "." base64url(payload) "." hex(HMAC-SHA256(secret, base64url(header) "." base64url(payload)))
//
// The header is always the literal {"alg":"HS256","typ":"JWT"}, segments are
// unpadded base64url and the signature is lowercase hex. The format must stay
// bit-exact so that already-issued tokens keep verifying.
package sec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Errors

var (
	// ErrMalformedToken reports a token with the wrong shape or an undecodable payload.
	ErrMalformedToken = fmt.Errorf("sec: malformed token: %w", jwt.ErrTokenMalformed)

	// ErrInvalidSignature reports a signature that does not match the signing input.
	ErrInvalidSignature = fmt.Errorf("sec: invalid signature: %w", jwt.ErrTokenSignatureInvalid)

	// ErrTokenExpired reports a correctly signed token whose expiry has passed.
	ErrTokenExpired = fmt.Errorf("sec: token expired: %w", jwt.ErrTokenExpired)

	// ErrTokenRevoked reports a token whose id is on the revocation list.
	ErrTokenRevoked = errors.New("sec: token revoked")

	// ErrNoToken reports a request without a bearer credential.
	ErrNoToken = errors.New("sec: no token provided")

	// ErrInvalidToken is the umbrella every credential rejection wraps, so
	// transport code can answer uniformly without learning the cause.
	ErrInvalidToken = errors.New("sec: invalid token")
)

// tokenHeader is the fixed JOSE header of every session token.
const tokenHeader = `{"alg":"HS256","typ":"JWT"}`

// signatureHexLength is the length of a hex-rendered HMAC-SHA256.
const signatureHexLength = 64

var encodedTokenHeader = base64.RawURLEncoding.EncodeToString([]byte(tokenHeader))

// # Secrets

// Secrets carries server-held key material. It is built once from configuration
// and passed to every component that signs or verifies.
type Secrets struct {
	tokenKey []byte
}

// NewSecrets copies tokenSecret into a new [Secrets] value.
func NewSecrets(tokenSecret []byte) Secrets {
	key := make([]byte, len(tokenSecret))
	copy(key, tokenSecret)
	return Secrets{tokenKey: key}
}

// # Claims

// AuthClaims is the payload embedded inside a session token.
//
// The registered claims carry the subject (identity id), issuance and expiry
// timestamps and the token id used by the revocation list. Email, role and
// display name let the middleware rebuild the caller's identity without a
// database round-trip when the claims policy is in effect.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// UserID returns the subject identifier of the claims.
func (claims *AuthClaims) UserID() string {
	return claims.Subject
}

// ExpiresAtTime returns the expiry instant, or the zero time when absent.
func (claims *AuthClaims) ExpiresAtTime() time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// # Codec

// TokenCodec encodes and decodes session tokens.
//
// It is stateless and safe for concurrent use.
type TokenCodec struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// CodecOption customizes a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		codec.now = now
	}
}

// NewTokenCodec creates a codec signing with the token key in secrets.
func NewTokenCodec(secrets Secrets, issuer string, options ...CodecOption) *TokenCodec {
	codec := &TokenCodec{
		key:    secrets.tokenKey,
		issuer: issuer,
		now:    time.Now,
	}
	for _, option := range options {
		option(codec)
	}
	return codec
}

/*
Encode signs claims into a compact token valid for ttl.

Description: Stamps issued_at with the current second and expires_at with
issued_at + ttl, then signs header and payload with HMAC-SHA256.

Parameters:
  - claims: AuthClaims (identity claims; iat/exp are overwritten)
  - ttl: time.Duration

Returns:
  - string: Compact token
  - error: Serialization or signing failures
*/
func (codec *TokenCodec) Encode(claims AuthClaims, ttl time.Duration) (string, error) {
	issuedAt := codec.now().Truncate(time.Second)

	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))
	if claims.Issuer == "" {
		claims.Issuer = codec.issuer
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("sec: failed to marshal claims: %w", err)
	}

	signingInput := encodedTokenHeader + "." + base64.RawURLEncoding.EncodeToString(payload)

	signature, err := jwt.SigningMethodHS256.Sign(signingInput, codec.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signingInput + "." + hex.EncodeToString(signature), nil
}

/*
Decode verifies token and returns its claims.

Description: Checks the segment count, the signature (constant-time), the
payload encoding and finally the expiry. The checks run in that order, so a
forged token never reaches the JSON parser.

Parameters:
  - token: string

Returns:
  - *AuthClaims: Parsed claims
  - error: ErrMalformedToken, ErrInvalidSignature or ErrTokenExpired
*/
func (codec *TokenCodec) Decode(token string) (*AuthClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	// Only the exact lowercase rendering is accepted, so "AB" and "ab" are
	// not interchangeable spellings of one signature.
	if len(parts[2]) != signatureHexLength || !isLowerHex(parts[2]) {
		return nil, ErrInvalidSignature
	}

	signature, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, ErrInvalidSignature
	}

	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], signature, codec.key); err != nil {
		return nil, ErrInvalidSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}

	claims := &AuthClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, ErrMalformedToken
	}

	if claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}

	if !codec.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
