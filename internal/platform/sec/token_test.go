// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fixedClock returns a clock frozen at the pointed-to instant.
func fixedClock(current *time.Time) func() time.Time {
	return func() time.Time { return *current }
}

func newCodec(secret string, current *time.Time) *sec.TokenCodec {
	return sec.NewTokenCodec(sec.NewSecrets([]byte(secret)), "lppm.test", sec.WithClock(fixedClock(current)))
}

func sampleClaims() sec.AuthClaims {
	return sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "0190f7a4-0000-7000-8000-000000000001",
			ID:      "0190f7a4-0000-7000-8000-0000000000aa",
		},
		Email: "dosen@univ.ac.id",
		Role:  sec.RoleLecturer,
		Name:  "Dr. Sari",
	}
}

/*
TestTokenCodec_RoundTrip verifies that decode(encode(c)) yields c plus the
stamped issuance and expiry timestamps.
*/
func TestTokenCodec_RoundTrip(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	codec := newCodec(testSecret, &now)

	claims := sampleClaims()
	token, err := codec.Encode(claims, 24*time.Hour)
	require.NoError(t, err)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, claims.Subject, decoded.UserID())
	assert.Equal(t, claims.ID, decoded.ID)
	assert.Equal(t, claims.Email, decoded.Email)
	assert.Equal(t, claims.Role, decoded.Role)
	assert.Equal(t, claims.Name, decoded.Name)
	assert.Equal(t, "lppm.test", decoded.Issuer)
	assert.Equal(t, now.Unix(), decoded.IssuedAt.Unix())
	assert.Equal(t, now.Add(24*time.Hour).Unix(), decoded.ExpiresAt.Unix())
}

/*
TestTokenCodec_WireFormat pins the header literal, unpadded base64url
segments and the lowercase hex HMAC-SHA256 signature.
*/
func TestTokenCodec_WireFormat(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	codec := newCodec(testSecret, &now)

	token, err := codec.Encode(sampleClaims(), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Equal(t, `{"alg":"HS256","typ":"JWT"}`, string(header))

	for _, segment := range parts[:2] {
		assert.NotContains(t, segment, "=")
		assert.NotContains(t, segment, "+")
		assert.NotContains(t, segment, "/")
	}

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), parts[2])

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, float64(now.Unix()), raw["iat"])
	assert.Equal(t, float64(now.Add(time.Hour).Unix()), raw["exp"])
	assert.Equal(t, "lecturer", raw["role"])
}

/*
TestTokenCodec_TamperDetection flips every character of a valid token and
expects each variant to be rejected.
*/
func TestTokenCodec_TamperDetection(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	codec := newCodec(testSecret, &now)

	token, err := codec.Encode(sampleClaims(), time.Hour)
	require.NoError(t, err)

	for index := 0; index < len(token); index++ {
		if token[index] == '.' {
			continue
		}

		replacement := byte('A')
		if token[index] == 'A' {
			replacement = 'B'
		}
		tampered := token[:index] + string(replacement) + token[index+1:]

		claims, err := codec.Decode(tampered)
		assert.Error(t, err, "position %d", index)
		assert.Nil(t, claims, "position %d", index)
	}
}

/*
TestTokenCodec_UppercaseSignatureRejected ensures the signature comparison is
over the exact lowercase rendering.
*/
func TestTokenCodec_UppercaseSignatureRejected(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	codec := newCodec(testSecret, &now)

	token, err := codec.Encode(sampleClaims(), time.Hour)
	require.NoError(t, err)

	lastDot := strings.LastIndex(token, ".")
	upper := token[:lastDot+1] + strings.ToUpper(token[lastDot+1:])
	if upper == token {
		t.Skip("signature has no hex letters")
	}

	_, err = codec.Decode(upper)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)
}

/*
TestTokenCodec_ExpiryBoundary checks that a token expiring at T decodes at
T-1 and fails at T and later.
*/
func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	issued := time.Unix(1_750_000_000, 0)
	now := issued
	codec := newCodec(testSecret, &now)

	token, err := codec.Encode(sampleClaims(), 24*time.Hour)
	require.NoError(t, err)

	expiry := issued.Add(24 * time.Hour)

	now = expiry.Add(-time.Second)
	_, err = codec.Decode(token)
	assert.NoError(t, err)

	now = expiry
	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)

	now = expiry.Add(time.Hour)
	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

/*
TestTokenCodec_WrongSecret checks that a token minted with one secret never
verifies under another.
*/
func TestTokenCodec_WrongSecret(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	issuer := newCodec(testSecret, &now)
	verifier := newCodec("another-secret-another-secret-xx", &now)

	token, err := issuer.Encode(sampleClaims(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)
}

/*
TestTokenCodec_Malformed covers structural failures.
*/
func TestTokenCodec_Malformed(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	codec := newCodec(testSecret, &now)

	sign := func(header, payload string) string {
		input := base64.RawURLEncoding.EncodeToString([]byte(header)) + "." + payload
		mac := hmac.New(sha256.New, []byte(testSecret))
		mac.Write([]byte(input))
		return input + "." + hex.EncodeToString(mac.Sum(nil))
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", sec.ErrMalformedToken},
		{"two_segments", "a.b", sec.ErrMalformedToken},
		{"four_segments", "a.b.c.d", sec.ErrMalformedToken},
		{"short_signature", "a.b.abc", sec.ErrInvalidSignature},
		{"signed_invalid_base64", sign(`{"alg":"HS256","typ":"JWT"}`, "!!!"), sec.ErrMalformedToken},
		{"signed_invalid_json", sign(`{"alg":"HS256","typ":"JWT"}`, base64.RawURLEncoding.EncodeToString([]byte("{not json"))), sec.ErrMalformedToken},
		{"signed_missing_exp", sign(`{"alg":"HS256","typ":"JWT"}`, base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x","role":"student"}`))), sec.ErrMalformedToken},
		{"signed_unknown_role", sign(`{"alg":"HS256","typ":"JWT"}`, base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x","role":"root","exp":1900000000}`))), sec.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Decode(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

/*
TestTokenCodec_LegacyRoleAlias accepts tokens minted with a localized role
and canonicalizes it during decode.
*/
func TestTokenCodec_LegacyRoleAlias(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	codec := newCodec(testSecret, &now)

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-1","role":"mahasiswa","exp":1900000000}`))
	input := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." + payload
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(input))

	claims, err := codec.Decode(input + "." + hex.EncodeToString(mac.Sum(nil)))
	require.NoError(t, err)
	assert.Equal(t, sec.RoleStudent, claims.Role)
}
