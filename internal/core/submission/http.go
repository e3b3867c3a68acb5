// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lppm/internal/core/workflow"
	requestutil "github.com/taibuivan/lppm/internal/platform/request"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/validate"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// Handler serves the endpoints every submission type shares. The owning
// package supplies the create and update handlers for its payload.
type Handler[T Entity] struct {
	service *Service[T]
}

// NewHandler constructs a new shared [Handler].
func NewHandler[T Entity](service *Service[T]) *Handler[T] {
	return &Handler[T]{service: service}
}

// Register mounts the shared routes next to create and update.
//
// # Endpoints
//   - GET    /               : Paginated list (status, year, program_id, q).
//   - GET    /stats          : Counts per status.
//   - POST   /               : create.
//   - GET    /{id}           : One submission.
//   - PATCH  /{id}           : update.
//   - DELETE /{id}           : Soft delete.
//   - POST   /{id}/submit    : draft to submitted.
//   - POST   /{id}/decision  : Final outcome (elevated).
func (handler *Handler[T]) Register(router chi.Router, create, update http.HandlerFunc) {
	router.Get("/", handler.list)
	router.Get("/stats", handler.stats)
	router.Post("/", create)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", update)
	router.Delete("/{id}", handler.delete)
	router.Post("/{id}/submit", handler.submit)
	router.Post("/{id}/decision", handler.decide)
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

func (handler *Handler[T]) list(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{
		ProgramID: requestutil.Query(request, FieldProgramID),
		Search:    requestutil.Query(request, "q"),
	}

	validator := &validate.Validator{}
	if raw := requestutil.Query(request, FieldStatus); raw != "" {
		status, err := workflow.ParseStatus(raw)
		validator.Custom(FieldStatus, err != nil, "Must be a valid status")
		filter.Status = &status
	}
	if year := requestutil.QueryInt(request, "year"); year != 0 {
		filter.FiscalYear = &year
	}
	if filter.ProgramID != "" {
		validator.UUID(FieldProgramID, filter.ProgramID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	result, err := handler.service.List(request.Context(), requestutil.Identity(request), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, pagination.NewMeta(page, result.Total))
}

func (handler *Handler[T]) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.Stats(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

func (handler *Handler[T]) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.service.Get(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

func (handler *Handler[T]) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler[T]) submit(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.service.Submit(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

func (handler *Handler[T]) decide(writer http.ResponseWriter, request *http.Request) {
	var input decisionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldDecision, input.Decision, workflow.StatusApproved.String(), workflow.StatusRejected.String())
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Decide(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"), workflow.Status(input.Decision))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

// ValidateContent checks the shared content fields of a create or update
// payload. Nil fields are skipped unless required is set.
func ValidateContent(validator *validate.Validator, title *string, fiscalYear *int, budget *float64, programID *string, required bool) {
	switch {
	case title != nil:
		validator.Required(FieldTitle, *title).MaxLen(FieldTitle, *title, MaxTitleLength)
	case required:
		validator.Required(FieldTitle, "")
	}

	switch {
	case fiscalYear != nil:
		validator.Range(FieldFiscalYear, *fiscalYear, MinFiscalYear, MaxFiscalYear)
	case required:
		validator.Custom(FieldFiscalYear, true, "This field is required")
	}

	if budget != nil {
		validator.NonNegative(FieldBudget, *budget)
	}
	if programID != nil {
		validator.OptionalUUID(FieldProgramID, *programID)
	}
}
