// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/lppm/internal/platform/request"
	"github.com/taibuivan/lppm/internal/platform/respond"
	"github.com/taibuivan/lppm/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the review routes of one target type, to be mounted under
// the target's "/{id}/reviews".
//
// # Endpoints
//   - GET /  : Reviews of the target.
//   - PUT /  : Create or replace the caller's review.
func (handler *Handler) Routes(target Target) func(chi.Router) {
	return func(router chi.Router) {
		router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
			handler.list(writer, request, target)
		})
		router.Put("/", func(writer http.ResponseWriter, request *http.Request) {
			handler.upsert(writer, request, target)
		})
	}
}

type reviewRequest struct {
	Score          *int   `json:"score"`
	Recommendation string `json:"recommendation"`
	Comment        string `json:"comment"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request, target Target) {
	list, err := handler.service.List(request.Context(), requestutil.Identity(request), target, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

/*
PUT /api/v1/{proposals|community-services}/{id}/reviews.

Response:
  - 200: Stored review
  - 400: Validation failure
  - 403: Caller is not a reviewer
  - 404: No such target
  - 409: Target is not open for review
*/
func (handler *Handler) upsert(writer http.ResponseWriter, request *http.Request, target Target) {
	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Score == nil {
		validator.Custom(FieldScore, true, "This field is required")
	} else {
		validator.Range(FieldScore, *input.Score, MinScore, MaxScore)
	}
	validator.OneOf(FieldRecommendation, input.Recommendation, Recommendations...).
		MaxLen(FieldComment, input.Comment, maxCommentLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Upsert(request.Context(), requestutil.Identity(request), target, requestutil.ID(request, "id"), Input{
		Score:          *input.Score,
		Recommendation: Recommendation(input.Recommendation),
		Comment:        input.Comment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}
