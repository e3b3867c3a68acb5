// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/users/account"
	"github.com/taibuivan/lppm/internal/users/auth"
	"github.com/taibuivan/lppm/pkg/pagination"
)

type memoryAccounts struct {
	mu   sync.Mutex
	rows map[string]auth.Identity
}

func (repo *memoryAccounts) FindByID(_ context.Context, id string) (*auth.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &row, nil
}

func (repo *memoryAccounts) Create(_ context.Context, identity *auth.Identity) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.Email == identity.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	repo.rows[identity.ID] = *identity
	return nil
}

func (repo *memoryAccounts) Update(_ context.Context, identity *auth.Identity) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rows[identity.ID] = *identity
	return nil
}

func (repo *memoryAccounts) List(context.Context, auth.IdentityFilter, pagination.Params) (pagination.Result[*auth.Identity], error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := pagination.Result[*auth.Identity]{}
	for _, row := range repo.rows {
		copied := row
		result.Items = append(result.Items, &copied)
	}
	result.Total = len(result.Items)
	return result, nil
}

func (repo *memoryAccounts) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.rows, id)
	return nil
}

const (
	superID    = "00000000-0000-7000-8000-000000000001"
	adminID    = "00000000-0000-7000-8000-000000000002"
	lecturerID = "00000000-0000-7000-8000-000000000003"
)

func caller(id string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: id}, Role: role}
}

func newService() (*account.Service, *memoryAccounts) {
	repo := &memoryAccounts{rows: map[string]auth.Identity{
		superID:    {ID: superID, Email: "root@univ.ac.id", Role: sec.RoleSuperAdmin, IsActive: true},
		adminID:    {ID: adminID, Email: "admin@univ.ac.id", Role: sec.RoleAdmin, IsActive: true},
		lecturerID: {ID: lecturerID, Email: "sari@univ.ac.id", Name: "Sari", Role: sec.RoleLecturer, IsActive: true},
	}}

	hasher := sec.NewPasswordHasher(sec.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return account.NewService(repo, access.NewGate(), hasher, logger), repo
}

func TestService_NonElevatedDenied(t *testing.T) {
	service, _ := newService()
	lecturer := caller(lecturerID, sec.RoleLecturer)

	_, err := service.List(context.Background(), lecturer, auth.IdentityFilter{}, pagination.Params{Page: 1, Limit: 20})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

	_, err = service.Get(context.Background(), lecturer, adminID)
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))
}

func TestService_Create(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	_, err := service.Create(ctx, caller(adminID, sec.RoleAdmin), account.CreateInput{
		Email: "new@univ.ac.id", Password: "rahasia123", Name: "Baru", Role: sec.RoleLPPMAdmin,
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

	created, err := service.Create(ctx, caller(adminID, sec.RoleAdmin), account.CreateInput{
		Email: " Dosen@Univ.ac.id ", Password: "rahasia123", Name: "Dosen Baru", Role: sec.RoleLecturer,
	})
	require.NoError(t, err)
	assert.Equal(t, "dosen@univ.ac.id", created.Email)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "rahasia123", repo.rows[created.ID].PasswordHash)

	_, err = service.Create(ctx, caller(superID, sec.RoleSuperAdmin), account.CreateInput{
		Email: "lppm@univ.ac.id", Password: "rahasia123", Name: "LPPM", Role: sec.RoleLPPMAdmin,
	})
	assert.NoError(t, err)

	_, err = service.Create(ctx, caller(superID, sec.RoleSuperAdmin), account.CreateInput{
		Email: "dosen@univ.ac.id", Password: "rahasia123", Name: "Dup", Role: sec.RoleStudent,
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_UpdateRoleChanges(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()
	admin := caller(adminID, sec.RoleAdmin)

	reviewer := sec.RoleReviewer
	updated, err := service.Update(ctx, admin, lecturerID, account.UpdateInput{Role: &reviewer})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleReviewer, updated.Role)

	student := sec.RoleStudent
	_, err = service.Update(ctx, admin, superID, account.UpdateInput{Role: &student})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions), "admin cannot demote a super admin")

	inactive := false
	_, err = service.Update(ctx, admin, adminID, account.UpdateInput{IsActive: &inactive})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))

	_, err = service.Update(ctx, admin, "missing", account.UpdateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_UpdateElevatedTarget(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()
	admin := caller(adminID, sec.RoleAdmin)
	super := caller(superID, sec.RoleSuperAdmin)

	inactive := false
	renamed := "Renamed"

	_, err := service.Update(ctx, admin, superID, account.UpdateInput{IsActive: &inactive})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))
	assert.True(t, repo.rows[superID].IsActive)

	_, err = service.Update(ctx, admin, superID, account.UpdateInput{Name: &renamed})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))
	assert.Empty(t, repo.rows[superID].Name)

	updated, err := service.Update(ctx, super, adminID, account.UpdateInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	updated, err = service.Update(ctx, admin, lecturerID, account.UpdateInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestService_Delete(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()
	admin := caller(adminID, sec.RoleAdmin)

	assert.True(t, apperr.HasCode(service.Delete(ctx, admin, adminID), apperr.CodeUnprocessable))
	assert.True(t, apperr.HasCode(service.Delete(ctx, admin, superID), apperr.CodeInsufficientPermissions))

	require.NoError(t, service.Delete(ctx, admin, lecturerID))
	assert.NotContains(t, repo.rows, lecturerID)
}

func TestService_UpdateProfile(t *testing.T) {
	service, _ := newService()
	name := "Dr. Sari, M.Kom"

	updated, err := service.UpdateProfile(context.Background(), caller(lecturerID, sec.RoleLecturer), account.ProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, sec.RoleLecturer, updated.Role)

	_, err = service.UpdateProfile(context.Background(), nil, account.ProfileInput{Name: &name})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}
