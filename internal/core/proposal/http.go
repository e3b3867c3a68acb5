// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lppm/internal/core/submission"
	requestutil "github.com/taibuivan/lppm/internal/platform/request"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/validate"
)

type Handler struct {
	service *Service
	shared  *submission.Handler[*Proposal]
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		shared:  submission.NewHandler(service.Service),
	}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	handler.shared.Register(router, handler.createProposal, handler.updateProposal)
}

type proposalRequest struct {
	Title      *string  `json:"title"`
	Abstract   *string  `json:"abstract"`
	Scheme     *string  `json:"scheme"`
	FiscalYear *int     `json:"fiscal_year"`
	Budget     *float64 `json:"budget"`
	ProgramID  *string  `json:"program_id"`
}

func (input proposalRequest) validate(creating bool) error {
	validator := &validate.Validator{}
	submission.ValidateContent(validator, input.Title, input.FiscalYear, input.Budget, input.ProgramID, creating)

	if input.Abstract != nil {
		validator.MaxLen(FieldAbstract, *input.Abstract, maxAbstractLength)
	}

	switch {
	case input.Scheme != nil:
		validator.OneOf(FieldScheme, *input.Scheme, Schemes...)
	case creating:
		validator.Required(FieldScheme, "")
	}

	return validator.Err()
}

/*
POST /api/v1/proposals.

Response:
  - 201: Draft proposal owned by the caller
  - 400: Validation failure
  - 403: Caller's role cannot author proposals
*/
func (handler *Handler) createProposal(writer http.ResponseWriter, request *http.Request) {
	var input proposalRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	create := CreateInput{
		Title:      *input.Title,
		Scheme:     Scheme(*input.Scheme),
		FiscalYear: *input.FiscalYear,
		ProgramID:  input.ProgramID,
	}
	if input.Abstract != nil {
		create.Abstract = *input.Abstract
	}
	if input.Budget != nil {
		create.Budget = *input.Budget
	}

	proposal, err := handler.service.Create(request.Context(), requestutil.Identity(request), create)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, proposal)
}

/*
PATCH /api/v1/proposals/{id}.

Response:
  - 200: Updated proposal
  - 403: Proposal is no longer a draft, or not the caller's
  - 404: Not found within the caller's scope
  - 409: Status changed concurrently
*/
func (handler *Handler) updateProposal(writer http.ResponseWriter, request *http.Request) {
	var input proposalRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(false); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateInput{
		Title:      input.Title,
		Abstract:   input.Abstract,
		FiscalYear: input.FiscalYear,
		Budget:     input.Budget,
		ProgramID:  input.ProgramID,
	}
	if input.Scheme != nil {
		scheme := Scheme(*input.Scheme)
		update.Scheme = &scheme
	}

	proposal, err := handler.service.Update(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"), update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, proposal)
}
