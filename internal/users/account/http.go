// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lppm/internal/platform/middleware"
	requestutil "github.com/taibuivan/lppm/internal/platform/request"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/platform/validate"
	"github.com/taibuivan/lppm/internal/users/auth"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the administrative and self-service endpoints.
//
// # Endpoints
//   - GET    /users      : Paginated accounts (role, is_active, q).
//   - POST   /users      : Create an account.
//   - GET    /users/{id} : One account.
//   - PATCH  /users/{id} : Partial update.
//   - DELETE /users/{id} : Soft delete.
//   - PATCH  /profile    : Edit the caller's own profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireElevated)
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{id}", handler.get)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	router.With(middleware.RequireAuth).Patch("/profile", handler.updateProfile)

	return router
}

// # Request Payloads

type createRequest struct {
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	IdentityNumber string  `json:"identity_number"`
	Department     string  `json:"department"`
	Institution    string  `json:"institution"`
	ProgramID      *string `json:"program_id"`
}

type updateRequest struct {
	Name           *string `json:"name"`
	Role           *string `json:"role"`
	IsActive       *bool   `json:"is_active"`
	IdentityNumber *string `json:"identity_number"`
	Department     *string `json:"department"`
	Institution    *string `json:"institution"`
	ProgramID      *string `json:"program_id"`
}

type profileRequest struct {
	Name        *string `json:"name"`
	Department  *string `json:"department"`
	Institution *string `json:"institution"`
}

// # Administration Endpoints

/*
GET /api/v1/users.

Response:
  - 200: Paginated accounts
  - 400: Unknown role filter
  - 403: Caller is not elevated
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := auth.IdentityFilter{
		IsActive: requestutil.QueryBool(request, FieldIsActive),
		Search:   strings.TrimSpace(requestutil.Query(request, "q")),
	}

	if raw := requestutil.Query(request, FieldRole); raw != "" {
		role, err := sec.ParseRole(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldRole, "Must be a valid role"))
			return
		}
		filter.Role = &role
	}

	page := pagination.FromRequest(request)
	result, err := handler.accountService.List(request.Context(), caller, filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, pagination.NewMeta(page, result.Total))
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: Account
  - 404: No such account
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.accountService.Get(request.Context(), caller, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
POST /api/v1/users.

Description: Roles accept the legacy spellings "dosen" and "mahasiswa",
stored under their canonical names.

Response:
  - 201: Created account
  - 400: Validation failure
  - 403: Elevated role requested by a non super administrator
  - 409: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, maxNameLength).
		Role(FieldRole, input.Role).
		MaxLen(FieldDepartment, input.Department, maxFieldLength).
		MaxLen(FieldInstitution, input.Institution, maxFieldLength)
	if input.ProgramID != nil {
		validator.OptionalUUID(FieldProgramID, *input.ProgramID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, _ := sec.ParseRole(input.Role)

	identity, err := handler.accountService.Create(request.Context(), caller, CreateInput{
		Email:          input.Email,
		Password:       input.Password,
		Name:           strings.TrimSpace(input.Name),
		Role:           role,
		IdentityNumber: input.IdentityNumber,
		Department:     input.Department,
		Institution:    input.Institution,
		ProgramID:      input.ProgramID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, identity)
}

/*
PATCH /api/v1/users/{id}.

Response:
  - 200: Updated account
  - 400: Validation failure
  - 403: Role change reserved for super administrators
  - 404: No such account
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, maxNameLength)
	}
	if input.Role != nil {
		validator.Role(FieldRole, *input.Role)
	}
	if input.ProgramID != nil {
		validator.OptionalUUID(FieldProgramID, *input.ProgramID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateInput{
		Name:           input.Name,
		IsActive:       input.IsActive,
		IdentityNumber: input.IdentityNumber,
		Department:     input.Department,
		Institution:    input.Institution,
		ProgramID:      input.ProgramID,
	}
	if input.Role != nil {
		role, _ := sec.ParseRole(*input.Role)
		update.Role = &role
	}

	identity, err := handler.accountService.Update(request.Context(), caller, requestutil.ID(request, "id"), update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
DELETE /api/v1/users/{id}.

Response:
  - 204: Account soft-deleted
  - 404: No such account
  - 422: Caller tried to delete themselves
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), caller, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self Service Endpoints

/*
PATCH /api/v1/profile.

Response:
  - 200: Updated profile
  - 400: Validation failure
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, maxNameLength)
	}
	if input.Department != nil {
		validator.MaxLen(FieldDepartment, *input.Department, maxFieldLength)
	}
	if input.Institution != nil {
		validator.MaxLen(FieldInstitution, *input.Institution, maxFieldLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.accountService.UpdateProfile(request.Context(), caller, ProfileInput{
		Name:        input.Name,
		Department:  input.Department,
		Institution: input.Institution,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}
