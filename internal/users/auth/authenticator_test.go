// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/users/auth"
)

func loginToken(t *testing.T, f *fixture) string {
	t.Helper()
	session, err := f.service.Login(context.Background(), "sari@univ.ac.id", goodPassword)
	require.NoError(t, err)
	return session.Token
}

/*
TestAuthenticator_NoCredential treats absent or non-Bearer headers as anonymous.
*/
func TestAuthenticator_NoCredential(t *testing.T) {
	f := newFixture(t, auth.Config{})
	authenticator := auth.NewAuthenticator(f.codec, f.revocations, f.identities, true)
	token := loginToken(t, f)

	for _, header := range []string{"", "Bearer ", "bearer " + token, "Basic dXNlcjpwYXNz", token} {
		claims, err := authenticator.Authenticate(context.Background(), header)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrNoToken, header)
	}
}

/*
TestAuthenticator_Rejections wraps every credential failure in sec.ErrInvalidToken.
*/
func TestAuthenticator_Rejections(t *testing.T) {
	f := newFixture(t, auth.Config{TokenTTL: time.Hour})
	authenticator := auth.NewAuthenticator(f.codec, f.revocations, f.identities, true)
	token := loginToken(t, f)

	_, err := authenticator.Authenticate(context.Background(), "Bearer a.b")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
	assert.ErrorIs(t, err, sec.ErrMalformedToken)

	// Three segments are structurally valid, so the signature check fails first.
	_, err = authenticator.Authenticate(context.Background(), "Bearer not.a.token")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)

	other := sec.NewTokenCodec(sec.NewSecrets([]byte("another-secret-of-at-least-32-bytes!")), "lppm.test", sec.WithClock(f.clock))
	identity, err := f.identities.FindByID(context.Background(), lecturerID)
	require.NoError(t, err)
	forged, err := other.Encode(identity.Claims(), time.Hour)
	require.NoError(t, err)

	_, err = authenticator.Authenticate(context.Background(), "Bearer "+forged)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)

	f.now = f.now.Add(time.Hour)
	_, err = authenticator.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestAuthenticator_LivePolicy follows the identity row rather than the claims.
*/
func TestAuthenticator_LivePolicy(t *testing.T) {
	f := newFixture(t, auth.Config{})
	authenticator := auth.NewAuthenticator(f.codec, f.revocations, f.identities, true)
	header := "Bearer " + loginToken(t, f)

	claims, err := authenticator.Authenticate(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleLecturer, claims.Role)

	f.identities.setRole(lecturerID, sec.RoleReviewer)
	claims, err = authenticator.Authenticate(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleReviewer, claims.Role)

	f.identities.setActive(lecturerID, false)
	_, err = authenticator.Authenticate(context.Background(), header)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
	assert.ErrorIs(t, err, auth.ErrIdentityUnavailable)
}

/*
TestAuthenticator_ClaimsPolicy trusts the token as minted.
*/
func TestAuthenticator_ClaimsPolicy(t *testing.T) {
	f := newFixture(t, auth.Config{})
	authenticator := auth.NewAuthenticator(f.codec, f.revocations, nil, false)
	header := "Bearer " + loginToken(t, f)

	f.identities.setActive(lecturerID, false)

	claims, err := authenticator.Authenticate(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, lecturerID, claims.UserID())
	assert.Equal(t, sec.RoleLecturer, claims.Role)
}

/*
TestAuthenticator_StoreOutage is an infrastructure error, not a rejection.
*/
func TestAuthenticator_StoreOutage(t *testing.T) {
	f := newFixture(t, auth.Config{})
	header := "Bearer " + loginToken(t, f)

	f.redis.Close()
	_, err := auth.NewAuthenticator(f.codec, f.revocations, f.identities, true).Authenticate(context.Background(), header)
	require.Error(t, err)
	assert.NotErrorIs(t, err, sec.ErrInvalidToken)

	f.identities.failFind = errors.New("connection reset")
	_, err = auth.NewAuthenticator(f.codec, noRevocations{}, f.identities, true).Authenticate(context.Background(), header)
	require.Error(t, err)
	assert.NotErrorIs(t, err, sec.ErrInvalidToken)
}

type noRevocations struct{}

func (noRevocations) Revoke(context.Context, string, time.Duration) error { return nil }
func (noRevocations) IsRevoked(context.Context, string) (bool, error)     { return false, nil }
