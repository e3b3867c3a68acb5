// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package program

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lppm/internal/platform/middleware"
	requestutil "github.com/taibuivan/lppm/internal/platform/request"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/validate"
	"github.com/taibuivan/lppm/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Any signed-in account
	router.Get("/", handler.listPrograms)
	router.Get("/{id}", handler.getProgram)

	// Administrators only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireElevated)

		adminRoute.Post("/", handler.createProgram)
		adminRoute.Patch("/{id}", handler.updateProgram)
		adminRoute.Delete("/{id}", handler.deleteProgram)
	})
}

type programRequest struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	Faculty  *string `json:"faculty"`
	Degree   *string `json:"degree"`
	IsActive *bool   `json:"is_active"`
}

func (input programRequest) validate(creating bool) error {
	validator := &validate.Validator{}

	check := func(field string, value *string, max int) {
		if value == nil {
			if creating {
				validator.Required(field, "")
			}
			return
		}
		validator.Required(field, *value).MaxLen(field, *value, max)
	}

	check(FieldCode, input.Code, maxCodeLength)
	check(FieldName, input.Name, maxNameLength)
	check(FieldFaculty, input.Faculty, maxFacultyLength)

	if input.Degree != nil {
		validator.OneOf(FieldDegree, *input.Degree, Degrees...)
	} else if creating {
		validator.Required(FieldDegree, "")
	}

	return validator.Err()
}

func (handler *Handler) listPrograms(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	filter := Filter{
		Faculty:  requestutil.Query(request, FieldFaculty),
		IsActive: requestutil.QueryBool(request, FieldIsActive),
		Query:    requestutil.Query(request, "q"),
	}
	if raw := requestutil.Query(request, FieldDegree); raw != "" {
		degree := Degree(raw)
		filter.Degree = &degree
	}

	result, err := handler.service.List(request.Context(), requestutil.Identity(request), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, pagination.NewMeta(page, result.Total))
}

func (handler *Handler) getProgram(writer http.ResponseWriter, request *http.Request) {
	program, err := handler.service.Get(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, program)
}

func (handler *Handler) createProgram(writer http.ResponseWriter, request *http.Request) {
	var input programRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	program, err := handler.service.Create(request.Context(), requestutil.Identity(request), CreateInput{
		Code:    *input.Code,
		Name:    *input.Name,
		Faculty: *input.Faculty,
		Degree:  Degree(*input.Degree),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, program)
}

func (handler *Handler) updateProgram(writer http.ResponseWriter, request *http.Request) {
	var input programRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(false); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateInput{
		Code:     input.Code,
		Name:     input.Name,
		Faculty:  input.Faculty,
		IsActive: input.IsActive,
	}
	if input.Degree != nil {
		degree := Degree(*input.Degree)
		update.Degree = &degree
	}

	program, err := handler.service.Update(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id"), update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, program)
}

func (handler *Handler) deleteProgram(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
