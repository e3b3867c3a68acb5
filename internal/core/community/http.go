// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package community

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
	shared  *submission.Handler[*Activity]
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		shared:  submission.NewHandler(service.Service),
	}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	handler.shared.Register(router, handler.createActivity, handler.updateActivity)
}

type activityRequest struct {
	Title      *string  `json:"title"`
	Summary    *string  `json:"summary"`
	Partner    *string  `json:"partner"`
	Location   *string  `json:"location"`
	FiscalYear *int     `json:"fiscal_year"`
	Budget     *float64 `json:"budget"`
	ProgramID  *string  `json:"program_id"`
}

func (input activityRequest) decode(request *http.Request, creating bool) (Input, error) {
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return Input{}, validate.ErrInvalidJSON
	}

	validator := &validate.Validator{}
	submission.ValidateContent(validator, input.Title, input.FiscalYear, input.Budget, input.ProgramID, creating)

	for _, field := range []struct {
		name  string
		value *string
		max   int
	}{
		{FieldSummary, input.Summary, maxSummaryLength},
		{FieldPartner, input.Partner, maxPartnerLength},
		{FieldLocation, input.Location, maxPlaceLength},
	} {
		if field.value != nil {
			validator.MaxLen(field.name, *field.value, field.max)
		}
	}

	if creating && input.Partner == nil {
		validator.Required(FieldPartner, "")
	}

	if err := validator.Err(); err != nil {
		return Input{}, err
	}

	return Input{
		Title:      input.Title,
		Summary:    input.Summary,
		Partner:    input.Partner,
		Location:   input.Location,
		FiscalYear: input.FiscalYear,
		Budget:     input.Budget,
		ProgramID:  input.ProgramID,
	}, nil
}

func (handler *Handler) createActivity(writer http.ResponseWriter, request *http.Request) {
	input, err := activityRequest{}.decode(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	activity, err := handler.service.Create(request.Context(), requestutil.Identity(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, activity)
}

func (handler *Handler) updateActivity(writer http.ResponseWriter, request *http.Request) {
	input, err := activityRequest{}.decode(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	activity, err := handler.service.Update(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, activity)
}
