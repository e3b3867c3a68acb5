// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package community_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/community"
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/core/submission/submissiontest"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pagination"
)

func identity(id string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: id}, Role: role}
}

func text(value string) *string { return &value }

func newService() (*community.Service, *submissiontest.Memory[*community.Activity]) {
	repo := submissiontest.NewMemory("Community service", func(a *community.Activity) *community.Activity {
		copied := *a
		return &copied
	})
	return community.NewService(repo, access.NewGate(), slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestService_Lifecycle(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()
	student := identity("00000000-0000-7000-8000-000000000051", sec.RoleStudent)
	year := 2026

	created, err := service.Create(ctx, student, community.Input{
		Title:      text("Pelatihan Literasi Digital"),
		Partner:    text(" Desa Sukamaju "),
		Location:   text("Kabupaten Bandung"),
		FiscalYear: &year,
		ProgramID:  text(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Desa Sukamaju", created.Partner)
	assert.Nil(t, created.ProgramID)
	assert.Equal(t, workflow.StatusDraft, created.Status)

	updated, err := service.Update(ctx, student, created.ID, community.Input{Summary: text("Pelatihan dua hari")})
	require.NoError(t, err)
	assert.Equal(t, "Pelatihan dua hari", updated.Summary)
	assert.Equal(t, "Desa Sukamaju", updated.Partner, "unset fields are kept")

	_, err = service.Submit(ctx, student, created.ID)
	require.NoError(t, err)

	_, err = service.Update(ctx, student, created.ID, community.Input{Summary: text("late edit")})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

	stored, ok := repo.Row(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Pelatihan dua hari", stored.Summary)
}

func TestService_ScopePerRole(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()
	lecturer := identity("00000000-0000-7000-8000-000000000061", sec.RoleLecturer)
	year := 2026

	for _, title := range []string{"A", "B", "C"} {
		_, err := service.Create(ctx, lecturer, community.Input{Title: text(title), Partner: text("Mitra"), FiscalYear: &year})
		require.NoError(t, err)
	}

	all, err := service.List(ctx, identity("00000000-0000-7000-8000-000000000062", sec.RoleAdmin), submission.Filter{}, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Len(t, all.Items, 2)

	repo.SetStatus(all.Items[0].ID, workflow.StatusUnderReview)

	reviewer := identity("00000000-0000-7000-8000-000000000063", sec.RoleReviewer)
	visible, err := service.List(ctx, reviewer, submission.Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, visible.Items, 1)
	assert.Equal(t, all.Items[0].ID, visible.Items[0].ID)

	stats, err := service.Stats(ctx, reviewer)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 0, stats.ByStatus[workflow.StatusDraft])

	_, err = service.Stats(ctx, identity("00000000-0000-7000-8000-000000000064", sec.RoleGuest))
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))
}
