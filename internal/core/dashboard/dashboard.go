// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard aggregates portal-wide counters for the landing page.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/submission"
	requestutil "github.com/taibuivan/lppm/internal/platform/request"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Collaborators

// StatsSource counts the submissions a caller can see, per status.
type StatsSource interface {
	Stats(context context.Context, caller *sec.AuthClaims) (submission.Stats, error)
}

// RoleCounter counts live accounts per role.
type RoleCounter interface {
	CountByRole(context context.Context) (map[sec.Role]int, error)
}

// Summary is the dashboard payload. Users is present for elevated callers only.
type Summary struct {
	Proposals         submission.Stats `json:"proposals"`
	CommunityServices submission.Stats `json:"community_services"`
	Users             map[sec.Role]int `json:"users,omitempty"`
}

// # Service

type Service struct {
	proposals StatsSource
	community StatsSource
	accounts  RoleCounter
	gate      *access.Gate
	logger    *slog.Logger
}

func NewService(proposals, community StatsSource, accounts RoleCounter, gate *access.Gate, logger *slog.Logger) *Service {
	return &Service{
		proposals: proposals,
		community: community,
		accounts:  accounts,
		gate:      gate,
		logger:    logger,
	}
}

/*
Summary collects the caller's dashboard counters concurrently.

Description: Submission totals carry the caller's access scope. Account
counts are added only when the gate lets the caller list accounts.

Parameters:
  - ctx: context.Context
  - caller: *sec.AuthClaims

Returns:
  - Summary: Counters
  - error: The first failing aggregate
*/
func (service *Service) Summary(ctx context.Context, caller *sec.AuthClaims) (Summary, error) {
	var summary Summary

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		summary.Proposals, err = service.proposals.Stats(groupCtx, caller)
		return err
	})
	group.Go(func() (err error) {
		summary.CommunityServices, err = service.community.Stats(groupCtx, caller)
		return err
	})

	if _, denied := service.gate.Authorize(caller, access.ActionList, access.Resource{Kind: access.KindAccount}); denied == nil {
		group.Go(func() (err error) {
			summary.Users, err = service.accounts.CountByRole(groupCtx)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return Summary{}, err
	}

	service.logger.DebugContext(ctx, "dashboard_served", slog.Bool("with_users", summary.Users != nil))
	return summary, nil
}

// # HTTP

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.summary)
}

func (handler *Handler) summary(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.service.Summary(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}
