// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// # Password Hashing

// Argon2Params tunes the Argon2id key derivation cost.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns OWASP-recommended defaults for Argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// legacyDigestLength is the hex length of the unsalted SHA-256 digests
// written by the previous portal.
const legacyDigestLength = sha256.Size * 2

var errInvalidDigest = errors.New("sec: invalid argon2 digest format")

// PasswordHasher derives and verifies password digests.
//
// New digests are Argon2id in PHC string form with a random per-identity salt:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
//
// Unsalted hex SHA-256 digests from imported accounts still verify, and are
// reported as needing a rehash so the caller can upgrade them after login.
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher creates a [PasswordHasher] with the given cost parameters.
func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	return &PasswordHasher{params: params}
}

// Hash derives a new salted digest for plaintext.
func (hasher *PasswordHasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, hasher.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		hasher.params.Iterations,
		hasher.params.Memory,
		hasher.params.Parallelism,
		hasher.params.KeyLength,
	)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hasher.params.Memory,
		hasher.params.Iterations,
		hasher.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the digest of plaintext and compares it with the stored one
// in constant time.
//
// needsRehash is true when the match succeeded against a legacy digest or
// against Argon2 parameters weaker than the hasher's current ones.
func (hasher *PasswordHasher) Verify(plaintext, digest string) (ok bool, needsRehash bool) {
	if isLegacyDigest(digest) {
		computed := legacyDigest(plaintext)
		return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, true
	}

	params, salt, expected, err := decodeArgon2Digest(digest)
	if err != nil {
		return false, false
	}

	computed := argon2.IDKey(
		[]byte(plaintext),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		params.KeyLength,
	)

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return false, false
	}

	return true, hasher.isWeakerThanCurrent(params)
}

// isWeakerThanCurrent reports whether a stored digest used cheaper parameters.
func (hasher *PasswordHasher) isWeakerThanCurrent(params Argon2Params) bool {
	return params.Memory < hasher.params.Memory ||
		params.Iterations < hasher.params.Iterations ||
		params.KeyLength < hasher.params.KeyLength
}

// decodeArgon2Digest parses a PHC-formatted Argon2id digest.
func decodeArgon2Digest(digest string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, errInvalidDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, errInvalidDigest
	}

	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, errInvalidDigest
	}
	// argon2.IDKey panics on a zero cost parameter.
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return Argon2Params{}, nil, nil, errInvalidDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, errInvalidDigest
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errInvalidDigest
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}

// legacyDigest reproduces the previous unsalted scheme: hex(SHA-256(utf8(plaintext))).
func legacyDigest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// isLegacyDigest reports whether digest looks like a lowercase hex SHA-256 value.
func isLegacyDigest(digest string) bool {
	if len(digest) != legacyDigestLength {
		return false
	}
	return isLowerHex(digest)
}

// isLowerHex reports whether s consists only of [0-9a-f].
func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
