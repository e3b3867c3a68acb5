// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/uuid"
)

var reviews = access.Resource{Kind: access.KindReview}

type Service struct {
	repo   Repository
	gate   *access.Gate
	logger *slog.Logger
}

func NewService(repo Repository, gate *access.Gate, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		gate:   gate,
		logger: logger,
	}
}

/*
Upsert records the caller's review of a target.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims (reviewer or elevated)
  - target: Target
  - resourceID: string
  - input: Input

Returns:
  - *Review: The stored review
  - error: InsufficientPermissions, NotFound, Conflict or storage failures
*/
func (service *Service) Upsert(context context.Context, caller *sec.AuthClaims, target Target, resourceID string, input Input) (*Review, error) {
	if _, err := service.gate.Authorize(caller, access.ActionReview, reviews); err != nil {
		return nil, err
	}

	review := &Review{
		ID:             uuid.New(),
		ResourceType:   target,
		ResourceID:     resourceID,
		ReviewerID:     caller.UserID(),
		Score:          input.Score,
		Recommendation: input.Recommendation,
		Comment:        strings.TrimSpace(input.Comment),
	}

	status, err := service.repo.Upsert(context, review)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_submitted",
		slog.String("review_id", review.ID),
		slog.String("target", string(target)),
		slog.String("target_id", resourceID),
		slog.String("target_status", status.String()),
	)
	return review, nil
}

/*
List returns the reviews of a target the caller can see.

Description: Authors see the reviews of their own submissions, reviewers
those of reviewable ones. A target outside the caller's scope is 404.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - target: Target
  - resourceID: string

Returns:
  - []*Review: Reviews, oldest first
  - error: InsufficientPermissions, NotFound or storage failures
*/
func (service *Service) List(context context.Context, caller *sec.AuthClaims, target Target, resourceID string) ([]*Review, error) {
	decision, err := service.gate.Authorize(caller, access.ActionList, reviews)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Visible(context, target, resourceID, decision.Scope); err != nil {
		return nil, err
	}

	return service.repo.ListByTarget(context, target, resourceID)
}
