// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/proposal"
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/core/submission/submissiontest"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pagination"
)

const (
	aliceID    = "00000000-0000-7000-8000-00000000a11c"
	bobID      = "00000000-0000-7000-8000-000000000b0b"
	reviewerID = "00000000-0000-7000-8000-00000000e1e1"
	adminID    = "00000000-0000-7000-8000-00000000ad01"
)

var firstPage = pagination.Params{Page: 1, Limit: 20}

func identity(id string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: id}, Role: role}
}

type fixture struct {
	repo    *submissiontest.Memory[*proposal.Proposal]
	service *proposal.Service
	now     time.Time
}

func newFixture() *fixture {
	f := &fixture{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	f.repo = submissiontest.NewMemory("Proposal", func(p *proposal.Proposal) *proposal.Proposal {
		copied := *p
		return &copied
	})
	f.service = proposal.NewService(f.repo, access.NewGate(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		submission.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) draft(t *testing.T, owner *sec.AuthClaims, title string) *proposal.Proposal {
	t.Helper()
	created, err := f.service.Create(context.Background(), owner, proposal.CreateInput{
		Title: title, Abstract: "Ringkasan", Scheme: proposal.SchemeBasic, FiscalYear: 2026, Budget: 25_000_000,
	})
	require.NoError(t, err)
	return created
}

func TestService_CreateStampsOwnership(t *testing.T) {
	f := newFixture()
	alice := identity(aliceID, sec.RoleLecturer)

	created := f.draft(t, alice, "  Deteksi Banjir Berbasis IoT  ")

	assert.Equal(t, "Deteksi Banjir Berbasis IoT", created.Title)
	assert.Equal(t, aliceID, created.CreatedBy)
	assert.Equal(t, workflow.StatusDraft, created.Status)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.SubmittedAt)

	_, err := f.service.Create(context.Background(), identity(reviewerID, sec.RoleReviewer), proposal.CreateInput{Title: "x", Scheme: proposal.SchemeBasic, FiscalYear: 2026})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

	_, err = f.service.Create(context.Background(), nil, proposal.CreateInput{Title: "x", Scheme: proposal.SchemeBasic, FiscalYear: 2026})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestService_OwnershipIsolation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := identity(aliceID, sec.RoleLecturer)
	bob := identity(bobID, sec.RoleStudent)

	mine := f.draft(t, alice, "Proposal Alice")
	theirs := f.draft(t, bob, "Proposal Bob")

	t.Run("list_only_shows_own_rows", func(t *testing.T) {
		result, err := f.service.List(ctx, alice, submission.Filter{}, firstPage)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, mine.ID, result.Items[0].ID)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("foreign_row_is_not_found", func(t *testing.T) {
		_, err := f.service.Get(ctx, alice, theirs.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		_, err = f.service.Get(ctx, alice, "00000000-0000-7000-8000-000000000000")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "missing and foreign rows look the same")
	})

	t.Run("foreign_row_cannot_be_changed", func(t *testing.T) {
		title := "Hijacked"
		_, err := f.service.Update(ctx, alice, theirs.ID, proposal.UpdateInput{Title: &title})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		assert.True(t, apperr.HasCode(f.service.Delete(ctx, alice, theirs.ID), apperr.CodeNotFound))

		_, err = f.service.Submit(ctx, alice, theirs.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		stored, _ := f.repo.Row(theirs.ID)
		assert.Equal(t, "Proposal Bob", stored.Title)
	})

	t.Run("stats_carry_the_scope", func(t *testing.T) {
		stats, err := f.service.Stats(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1, stats.ByStatus[workflow.StatusDraft])
	})

	t.Run("elevated_sees_everything", func(t *testing.T) {
		result, err := f.service.List(ctx, identity(adminID, sec.RoleLPPMAdmin), submission.Filter{}, firstPage)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
	})

	t.Run("reviewer_sees_only_reviewable", func(t *testing.T) {
		reviewer := identity(reviewerID, sec.RoleReviewer)

		_, err := f.service.Get(ctx, reviewer, mine.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "drafts are private")

		_, err = f.service.Submit(ctx, alice, mine.ID)
		require.NoError(t, err)

		got, err := f.service.Get(ctx, reviewer, mine.ID)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusSubmitted, got.Status)
	})
}

func TestService_StatusImmutability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := identity(aliceID, sec.RoleLecturer)
	admin := identity(adminID, sec.RoleAdmin)

	created := f.draft(t, alice, "Sistem Irigasi Cerdas")

	submitted, err := f.service.Submit(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, f.now, *submitted.SubmittedAt)

	title := "Changed after submission"

	t.Run("author_cannot_edit_after_submit", func(t *testing.T) {
		_, err := f.service.Update(ctx, alice, created.ID, proposal.UpdateInput{Title: &title})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))
		assert.Contains(t, err.Error(), "current role is lecturer")

		assert.True(t, apperr.HasCode(f.service.Delete(ctx, alice, created.ID), apperr.CodeInsufficientPermissions))

		_, err = f.service.Submit(ctx, alice, created.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

		stored, _ := f.repo.Row(created.ID)
		assert.Equal(t, "Sistem Irigasi Cerdas", stored.Title)
	})

	t.Run("elevated_may_still_edit", func(t *testing.T) {
		updated, err := f.service.Update(ctx, admin, created.ID, proposal.UpdateInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, workflow.StatusSubmitted, updated.Status)
	})

	t.Run("elevated_cannot_resubmit", func(t *testing.T) {
		_, err := f.service.Submit(ctx, admin, created.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	})
}

func TestService_Decide(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := identity(aliceID, sec.RoleLecturer)
	admin := identity(adminID, sec.RoleSuperAdmin)

	created := f.draft(t, alice, "Energi Terbarukan Desa")

	_, err := f.service.Decide(ctx, admin, created.ID, workflow.StatusApproved)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "drafts cannot be decided")

	_, err = f.service.Submit(ctx, alice, created.ID)
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, alice, created.ID, workflow.StatusApproved)
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

	_, err = f.service.Decide(ctx, identity(reviewerID, sec.RoleReviewer), created.ID, workflow.StatusApproved)
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientPermissions))

	_, err = f.service.Decide(ctx, admin, created.ID, workflow.StatusUnderReview)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	decided, err := f.service.Decide(ctx, admin, created.ID, workflow.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	_, err = f.service.Decide(ctx, admin, created.ID, workflow.StatusApproved)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "final states are final")
}

func TestService_ListFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := identity(aliceID, sec.RoleLecturer)

	f.draft(t, alice, "Pertanian Presisi")
	second := f.draft(t, alice, "Kesehatan Masyarakat")
	_, err := f.service.Submit(ctx, alice, second.ID)
	require.NoError(t, err)

	submitted := workflow.StatusSubmitted
	result, err := f.service.List(ctx, alice, submission.Filter{Status: &submitted}, firstPage)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, second.ID, result.Items[0].ID)

	result, err = f.service.List(ctx, alice, submission.Filter{Search: "pertanian"}, firstPage)
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	other := 2025
	result, err = f.service.List(ctx, alice, submission.Filter{FiscalYear: &other}, firstPage)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

// racingRepo submits the row right after it is read, as a concurrent request would.
type racingRepo struct {
	*submissiontest.Memory[*proposal.Proposal]
}

func (repo racingRepo) FindByID(ctx context.Context, id string, scope access.Scope) (*proposal.Proposal, error) {
	found, err := repo.Memory.FindByID(ctx, id, scope)
	if err == nil {
		repo.SetStatus(id, workflow.StatusSubmitted)
	}
	return found, err
}

func TestService_ConcurrentSubmitBlocksWrites(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := identity(aliceID, sec.RoleLecturer)
	racing := proposal.NewService(racingRepo{f.repo}, access.NewGate(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("delete", func(t *testing.T) {
		created := f.draft(t, alice, "Pemetaan Lahan Kritis")

		err := racing.Delete(ctx, alice, created.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

		stored, ok := f.repo.Row(created.ID)
		require.True(t, ok)
		assert.Equal(t, workflow.StatusSubmitted, stored.Status)
	})

	t.Run("update", func(t *testing.T) {
		created := f.draft(t, alice, "Konservasi Mangrove")
		title := "Edited during submit"

		_, err := racing.Update(ctx, alice, created.ID, proposal.UpdateInput{Title: &title})
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

		stored, _ := f.repo.Row(created.ID)
		assert.Equal(t, "Konservasi Mangrove", stored.Title)
	})
}
