// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/users/auth"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// # Fakes

// memoryIdentities is an in-memory [auth.IdentityRepository]. It is safe for
// the background last-login touch.
type memoryIdentities struct {
	mu        sync.Mutex
	byID      map[string]*auth.Identity
	lastLogin map[string]time.Time
	failFind  error
}

func newMemoryIdentities(identities ...*auth.Identity) *memoryIdentities {
	repo := &memoryIdentities{byID: map[string]*auth.Identity{}, lastLogin: map[string]time.Time{}}
	for _, identity := range identities {
		repo.byID[identity.ID] = identity
	}
	return repo
}

func (repo *memoryIdentities) FindByEmail(_ context.Context, email string) (*auth.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failFind != nil {
		return nil, repo.failFind
	}
	for _, identity := range repo.byID {
		if identity.Email == email {
			copied := *identity
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryIdentities) FindByID(_ context.Context, id string) (*auth.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failFind != nil {
		return nil, repo.failFind
	}
	identity, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *identity
	return &copied, nil
}

func (repo *memoryIdentities) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lastLogin[id] = at
	return nil
}

func (repo *memoryIdentities) UpdatePassword(_ context.Context, id, digest string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	identity, ok := repo.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	identity.PasswordHash = digest
	return nil
}

func (repo *memoryIdentities) Create(_ context.Context, identity *auth.Identity) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.byID {
		if existing.Email == identity.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	copied := *identity
	repo.byID[identity.ID] = &copied
	return nil
}

func (repo *memoryIdentities) Update(_ context.Context, identity *auth.Identity) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.byID[identity.ID]; !ok {
		return apperr.NotFound("User")
	}
	copied := *identity
	repo.byID[identity.ID] = &copied
	return nil
}

func (repo *memoryIdentities) List(_ context.Context, _ auth.IdentityFilter, _ pagination.Params) (pagination.Result[*auth.Identity], error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := pagination.Result[*auth.Identity]{}
	for _, identity := range repo.byID {
		result.Items = append(result.Items, identity)
	}
	result.Total = len(result.Items)
	return result, nil
}

func (repo *memoryIdentities) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.byID[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.byID, id)
	return nil
}

func (repo *memoryIdentities) CountByRole(context.Context) (map[sec.Role]int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	counts := map[sec.Role]int{}
	for _, identity := range repo.byID {
		counts[identity.Role]++
	}
	return counts, nil
}

func (repo *memoryIdentities) digest(id string) string {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.byID[id].PasswordHash
}

func (repo *memoryIdentities) setActive(id string, active bool) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.byID[id].IsActive = active
}

func (repo *memoryIdentities) setRole(id string, role sec.Role) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.byID[id].Role = role
}

func (repo *memoryIdentities) lastLoginOf(id string) (time.Time, bool) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	at, ok := repo.lastLogin[id]
	return at, ok
}

// # Fixture

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	lecturerID   = "0190f7a4-0000-7000-8000-000000000001"
	inactiveID   = "0190f7a4-0000-7000-8000-000000000002"
	legacyID     = "0190f7a4-0000-7000-8000-000000000003"
	goodPassword = "rahasia123"
)

var cheapParams = sec.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fixture struct {
	now         time.Time
	identities  *memoryIdentities
	redis       *miniredis.Miniredis
	codec       *sec.TokenCodec
	service     *auth.Service
	revocations *auth.RedisRevocationStore
}

func (f *fixture) clock() time.Time { return f.now }

func legacyDigest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func newFixture(t *testing.T, config auth.Config) *fixture {
	t.Helper()

	hasher := sec.NewPasswordHasher(cheapParams)
	digest, err := hasher.Hash(goodPassword)
	require.NoError(t, err)

	f := &fixture{now: time.Unix(1_750_000_000, 0)}
	f.identities = newMemoryIdentities(
		&auth.Identity{ID: lecturerID, Email: "sari@univ.ac.id", Name: "Dr. Sari", Role: sec.RoleLecturer, IsActive: true, PasswordHash: digest},
		&auth.Identity{ID: inactiveID, Email: "old@univ.ac.id", Name: "Pak Lama", Role: sec.RoleLecturer, IsActive: false, PasswordHash: digest},
		&auth.Identity{ID: legacyID, Email: "budi@univ.ac.id", Name: "Budi", Role: sec.RoleStudent, IsActive: true, PasswordHash: legacyDigest(goodPassword)},
	)

	f.redis = miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f.revocations = auth.NewRevocationStore(client)
	f.codec = sec.NewTokenCodec(sec.NewSecrets([]byte(testSecret)), "lppm.test", sec.WithClock(f.clock))

	if config.TokenTTL == 0 {
		config.TokenTTL = 24 * time.Hour
	}

	f.service = auth.NewService(
		f.identities,
		f.revocations,
		auth.NewLockoutStore(client),
		hasher,
		f.codec,
		config,
		auth.WithClock(f.clock),
	)

	return f
}

// # Credential Verification

/*
TestService_VerifyCredentials_Success returns the stored identity.
*/
func TestService_VerifyCredentials_Success(t *testing.T) {
	f := newFixture(t, auth.Config{})

	identity, err := f.service.VerifyCredentials(context.Background(), "sari@univ.ac.id", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, lecturerID, identity.ID)
	assert.Equal(t, sec.RoleLecturer, identity.Role)
}

/*
TestService_VerifyCredentials_UniformFailure rejects every bad case with the
same error, and keeps doing so on repeated calls.
*/
func TestService_VerifyCredentials_UniformFailure(t *testing.T) {
	f := newFixture(t, auth.Config{})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown_email", "nobody@univ.ac.id", goodPassword},
		{"inactive_account", "old@univ.ac.id", goodPassword},
		{"wrong_password", "sari@univ.ac.id", "salah12345"},
		{"case_mismatch_email", "SARI@univ.ac.id", goodPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 3 {
				identity, err := f.service.VerifyCredentials(context.Background(), tt.email, tt.password)
				assert.Nil(t, identity)
				assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
				assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
			}
		})
	}
}

/*
TestService_VerifyCredentials_StoreFailure is not reported as bad credentials.
*/
func TestService_VerifyCredentials_StoreFailure(t *testing.T) {
	f := newFixture(t, auth.Config{})
	f.identities.failFind = errors.New("connection reset")

	_, err := f.service.VerifyCredentials(context.Background(), "sari@univ.ac.id", goodPassword)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

/*
TestService_VerifyCredentials_UpgradesLegacyDigest re-hashes an unsalted
SHA-256 digest after a successful match.
*/
func TestService_VerifyCredentials_UpgradesLegacyDigest(t *testing.T) {
	f := newFixture(t, auth.Config{})

	_, err := f.service.VerifyCredentials(context.Background(), "budi@univ.ac.id", goodPassword)
	require.NoError(t, err)

	upgraded := f.identities.digest(legacyID)
	assert.True(t, strings.HasPrefix(upgraded, "$argon2id$"), upgraded)

	_, err = f.service.VerifyCredentials(context.Background(), "budi@univ.ac.id", goodPassword)
	assert.NoError(t, err)
}

// # Session Issuance

/*
TestService_IssueSession carries the identity into the token claims.
*/
func TestService_IssueSession(t *testing.T) {
	f := newFixture(t, auth.Config{TokenTTL: 24 * time.Hour})

	identity, err := f.identities.FindByID(context.Background(), lecturerID)
	require.NoError(t, err)

	session, err := f.service.IssueSession(identity)
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(24*time.Hour).UTC(), session.ExpiresAt)

	claims, err := f.codec.Decode(session.Token)
	require.NoError(t, err)
	assert.Equal(t, lecturerID, claims.UserID())
	assert.Equal(t, "sari@univ.ac.id", claims.Email)
	assert.Equal(t, sec.RoleLecturer, claims.Role)
	assert.Equal(t, "Dr. Sari", claims.Name)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, session.ExpiresAt.Unix(), claims.ExpiresAt.Unix())

	second, err := f.service.IssueSession(identity)
	require.NoError(t, err)
	secondClaims, err := f.codec.Decode(second.Token)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, secondClaims.ID)
}

/*
TestService_Login records the login time in the background.
*/
func TestService_Login(t *testing.T) {
	f := newFixture(t, auth.Config{MaxLoginAttempts: 5, LockoutWindow: 15 * time.Minute})

	session, err := f.service.Login(context.Background(), "sari@univ.ac.id", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, lecturerID, session.Identity.ID)
	assert.NotEmpty(t, session.Token)

	assert.Eventually(t, func() bool {
		at, ok := f.identities.lastLoginOf(lecturerID)
		return ok && at.Equal(f.now.UTC())
	}, time.Second, 10*time.Millisecond)
}

/*
TestService_Login_Lockout refuses an email after repeated failures, even with
the right password, until the window closes.
*/
func TestService_Login_Lockout(t *testing.T) {
	f := newFixture(t, auth.Config{MaxLoginAttempts: 2, LockoutWindow: 15 * time.Minute})
	ctx := context.Background()

	for range 2 {
		_, err := f.service.Login(ctx, "sari@univ.ac.id", "salah12345")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	_, err := f.service.Login(ctx, "sari@univ.ac.id", goodPassword)
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeRateLimited, appErr.Code)
	assert.Equal(t, 900, appErr.RetryAfter)

	f.redis.FastForward(15 * time.Minute)

	_, err = f.service.Login(ctx, "sari@univ.ac.id", goodPassword)
	assert.NoError(t, err)
}

/*
TestService_Login_SuccessResetsFailures clears the counter on success.
*/
func TestService_Login_SuccessResetsFailures(t *testing.T) {
	f := newFixture(t, auth.Config{MaxLoginAttempts: 2, LockoutWindow: 15 * time.Minute})
	ctx := context.Background()

	_, err := f.service.Login(ctx, "sari@univ.ac.id", "salah12345")
	require.Error(t, err)
	_, err = f.service.Login(ctx, "sari@univ.ac.id", goodPassword)
	require.NoError(t, err)
	_, err = f.service.Login(ctx, "sari@univ.ac.id", "salah12345")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, "sari@univ.ac.id", goodPassword)
	assert.NoError(t, err)
}

// # Session Lifecycle

/*
TestService_LogoutAndRefresh revokes the presented token; refresh hands out a
working replacement.
*/
func TestService_LogoutAndRefresh(t *testing.T) {
	f := newFixture(t, auth.Config{})
	ctx := context.Background()
	authenticator := auth.NewAuthenticator(f.codec, f.revocations, f.identities, true)

	session, err := f.service.Login(ctx, "sari@univ.ac.id", goodPassword)
	require.NoError(t, err)

	claims, err := authenticator.VerifyToken(ctx, session.Token)
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, claims)
	require.NoError(t, err)

	_, err = authenticator.VerifyToken(ctx, session.Token)
	assert.ErrorIs(t, err, sec.ErrTokenRevoked)

	refreshedClaims, err := authenticator.VerifyToken(ctx, refreshed.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, refreshedClaims))
	_, err = authenticator.VerifyToken(ctx, refreshed.Token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	assert.Equal(t, 24*time.Hour, f.redis.TTL("auth:revoked:"+refreshedClaims.ID))
}

/*
TestService_Refresh_DeactivatedIdentity refuses to mint for a disabled account.
*/
func TestService_Refresh_DeactivatedIdentity(t *testing.T) {
	f := newFixture(t, auth.Config{})
	ctx := context.Background()

	session, err := f.service.Login(ctx, "sari@univ.ac.id", goodPassword)
	require.NoError(t, err)
	claims, err := f.codec.Decode(session.Token)
	require.NoError(t, err)

	f.identities.setActive(lecturerID, false)

	_, err = f.service.Refresh(ctx, claims)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestService_ChangePassword checks the current password before replacing it.
*/
func TestService_ChangePassword(t *testing.T) {
	f := newFixture(t, auth.Config{})
	ctx := context.Background()

	err := f.service.ChangePassword(ctx, lecturerID, "salah12345", "baru12345")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	require.NoError(t, f.service.ChangePassword(ctx, lecturerID, goodPassword, "baru12345"))

	_, err = f.service.VerifyCredentials(ctx, "sari@univ.ac.id", goodPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = f.service.VerifyCredentials(ctx, "sari@univ.ac.id", "baru12345")
	assert.NoError(t, err)
}
