// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package program

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pagination"
	"github.com/taibuivan/lppm/pkg/slug"
	"github.com/taibuivan/lppm/pkg/uuid"
)

var catalog = access.Resource{Kind: access.KindCatalog}

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

func (service *Service) List(context context.Context, caller *sec.AuthClaims, filter Filter, page pagination.Params) (pagination.Result[*Program], error) {
	if _, err := service.gate.Authorize(caller, access.ActionList, catalog); err != nil {
		return pagination.Result[*Program]{}, err
	}
	return service.repo.List(context, filter, page)
}

func (service *Service) Get(context context.Context, caller *sec.AuthClaims, id string) (*Program, error) {
	if _, err := service.gate.Authorize(caller, access.ActionRead, catalog); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, id)
}

// Create registers a program; the slug is derived from its name.
func (service *Service) Create(context context.Context, caller *sec.AuthClaims, input CreateInput) (*Program, error) {
	if _, err := service.gate.Authorize(caller, access.ActionCreate, catalog); err != nil {
		return nil, err
	}

	program := &Program{
		ID:       uuid.New(),
		Code:     strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:     strings.TrimSpace(input.Name),
		Faculty:  strings.TrimSpace(input.Faculty),
		Degree:   input.Degree,
		IsActive: true,
	}
	program.Slug = slug.From(string(program.Degree) + " " + program.Name)

	if err := service.repo.Create(context, program); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "program_created",
		slog.String("program_id", program.ID),
		slog.String("code", program.Code),
	)
	return program, nil
}

func (service *Service) Update(context context.Context, caller *sec.AuthClaims, id string, input UpdateInput) (*Program, error) {
	if _, err := service.gate.Authorize(caller, access.ActionUpdate, catalog); err != nil {
		return nil, err
	}

	program, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		program.Code = strings.ToUpper(strings.TrimSpace(*input.Code))
	}
	if input.Name != nil {
		program.Name = strings.TrimSpace(*input.Name)
	}
	if input.Faculty != nil {
		program.Faculty = strings.TrimSpace(*input.Faculty)
	}
	if input.Degree != nil {
		program.Degree = *input.Degree
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}
	program.Slug = slug.From(string(program.Degree) + " " + program.Name)

	if err := service.repo.Update(context, program); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "program_updated", slog.String("program_id", id))
	return program, nil
}

func (service *Service) Delete(context context.Context, caller *sec.AuthClaims, id string) error {
	if _, err := service.gate.Authorize(caller, access.ActionDelete, catalog); err != nil {
		return err
	}

	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "program_deleted", slog.String("program_id", id))
	return nil
}
