// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pointer"
)

// Service manages proposals. Listing, reads, deletion and the workflow
// come from the embedded submission service.
type Service struct {
	*submission.Service[*Proposal]
}

func NewService(repo Repository, gate *access.Gate, logger *slog.Logger, opts ...submission.Option) *Service {
	return &Service{Service: submission.NewService("proposal", repo, gate, logger, opts...)}
}

// CreateInput carries the content of a new proposal.
type CreateInput struct {
	Title      string
	Abstract   string
	Scheme     Scheme
	FiscalYear int
	Budget     float64
	ProgramID  *string
}

// UpdateInput is a partial content update; nil fields are left unchanged.
type UpdateInput struct {
	Title      *string
	Abstract   *string
	Scheme     *Scheme
	FiscalYear *int
	Budget     *float64
	ProgramID  *string
}

// Create stores a new draft proposal owned by the caller.
func (service *Service) Create(context context.Context, caller *sec.AuthClaims, input CreateInput) (*Proposal, error) {
	proposal := &Proposal{
		Abstract: strings.TrimSpace(input.Abstract),
		Scheme:   input.Scheme,
	}
	proposal.Title = strings.TrimSpace(input.Title)
	proposal.FiscalYear = input.FiscalYear
	proposal.Budget = input.Budget
	proposal.ProgramID = pointer.NonEmpty(input.ProgramID)

	if err := service.Service.Create(context, caller, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// Update edits the content of a proposal the caller may change.
func (service *Service) Update(context context.Context, caller *sec.AuthClaims, id string, input UpdateInput) (*Proposal, error) {
	return service.Service.Update(context, caller, id, func(proposal *Proposal) {
		if input.Title != nil {
			proposal.Title = strings.TrimSpace(*input.Title)
		}
		if input.Abstract != nil {
			proposal.Abstract = strings.TrimSpace(*input.Abstract)
		}
		if input.Scheme != nil {
			proposal.Scheme = *input.Scheme
		}
		if input.FiscalYear != nil {
			proposal.FiscalYear = *input.FiscalYear
		}
		if input.Budget != nil {
			proposal.Budget = *input.Budget
		}
		if input.ProgramID != nil {
			proposal.ProgramID = pointer.NonEmpty(input.ProgramID)
		}
	})
}
