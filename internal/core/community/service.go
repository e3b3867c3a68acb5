// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package community

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pointer"
)

type Service struct {
	*submission.Service[*Activity]
}

func NewService(repo Repository, gate *access.Gate, logger *slog.Logger, opts ...submission.Option) *Service {
	return &Service{Service: submission.NewService("community_service", repo, gate, logger, opts...)}
}

type Input struct {
	Title      *string
	Summary    *string
	Partner    *string
	Location   *string
	FiscalYear *int
	Budget     *float64
	ProgramID  *string
}

func (input Input) apply(activity *Activity) {
	assign := func(target *string, value *string) {
		if value != nil {
			*target = strings.TrimSpace(*value)
		}
	}

	assign(&activity.Title, input.Title)
	assign(&activity.Summary, input.Summary)
	assign(&activity.Partner, input.Partner)
	assign(&activity.Location, input.Location)

	if input.FiscalYear != nil {
		activity.FiscalYear = *input.FiscalYear
	}
	if input.Budget != nil {
		activity.Budget = *input.Budget
	}
	if input.ProgramID != nil {
		activity.ProgramID = pointer.NonEmpty(input.ProgramID)
	}
}

func (service *Service) Create(context context.Context, caller *sec.AuthClaims, input Input) (*Activity, error) {
	activity := &Activity{}
	input.apply(activity)

	if err := service.Service.Create(context, caller, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (service *Service) Update(context context.Context, caller *sec.AuthClaims, id string, input Input) (*Activity, error) {
	return service.Service.Update(context, caller, id, input.apply)
}
