// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pagination"
	"github.com/taibuivan/lppm/pkg/uuid"
)

// # Service Layer

var submissions = access.Resource{Kind: access.KindSubmission}

// Service orchestrates the lifecycle of one submission type.
type Service[T Entity] struct {
	repo   Repository[T]
	gate   *access.Gate
	logger *slog.Logger
	kind   string
	now    func() time.Time
}

// Option customizes a [Service].
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the wall clock used for workflow timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewService constructs a [Service]. kind prefixes log events, e.g. "proposal".
func NewService[T Entity](kind string, repo Repository[T], gate *access.Gate, logger *slog.Logger, opts ...Option) *Service[T] {
	resolved := options{now: time.Now}
	for _, opt := range opts {
		opt(&resolved)
	}

	return &Service[T]{
		repo:   repo,
		gate:   gate,
		logger: logger,
		kind:   kind,
		now:    resolved.now,
	}
}

// # Reads

/*
List returns the caller's view of the submissions.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - filter: Filter
  - page: pagination.Params

Returns:
  - pagination.Result[T]: One page inside the caller's scope
  - error: Unauthorized, InsufficientPermissions or storage failures
*/
func (service *Service[T]) List(context context.Context, caller *sec.AuthClaims, filter Filter, page pagination.Params) (pagination.Result[T], error) {
	decision, err := service.gate.Authorize(caller, access.ActionList, submissions)
	if err != nil {
		return pagination.Result[T]{}, err
	}
	return service.repo.List(context, filter, decision.Scope, page)
}

/*
Get returns one submission inside the caller's scope.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - id: string

Returns:
  - T: The submission
  - error: NotFound for missing and out-of-scope rows alike
*/
func (service *Service[T]) Get(context context.Context, caller *sec.AuthClaims, id string) (T, error) {
	var zero T

	decision, err := service.gate.Authorize(caller, access.ActionRead, submissions)
	if err != nil {
		return zero, err
	}
	return service.repo.FindByID(context, id, decision.Scope)
}

// Stats counts the caller's visible submissions per status.
func (service *Service[T]) Stats(context context.Context, caller *sec.AuthClaims) (Stats, error) {
	decision, err := service.gate.Authorize(caller, access.ActionStats, submissions)
	if err != nil {
		return Stats{}, err
	}

	counts, err := service.repo.CountByStatus(context, decision.Scope)
	if err != nil {
		return Stats{}, err
	}
	return NewStats(counts), nil
}

// # Writes

/*
Create stores a new draft owned by the caller.

Description: Identity, ownership and workflow fields of entity are
overwritten; only its content fields are taken from the caller.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - entity: T

Returns:
  - error: InsufficientPermissions or storage failures
*/
func (service *Service[T]) Create(context context.Context, caller *sec.AuthClaims, entity T) error {
	if _, err := service.gate.Authorize(caller, access.ActionCreate, submissions); err != nil {
		return err
	}

	record := entity.Base()
	record.ID = uuid.New()
	record.Status = workflow.StatusDraft
	record.CreatedBy = caller.UserID()
	record.SubmittedAt = nil
	record.DecidedAt = nil

	if err := service.repo.Create(context, entity); err != nil {
		return err
	}

	service.logger.InfoContext(context, service.kind+"_created", slog.String("id", record.ID))
	return nil
}

/*
Update applies edit to a submission the caller may change.

Description: The row is looked up inside the caller's read scope first, so
rows the caller cannot see are 404. Authors may only edit their drafts.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - id: string
  - edit: func(T) (mutates content fields only)

Returns:
  - T: The updated submission
  - error: NotFound, InsufficientPermissions, Conflict or storage failures
*/
func (service *Service[T]) Update(context context.Context, caller *sec.AuthClaims, id string, edit func(T)) (T, error) {
	var zero T

	entity, err := service.load(context, caller, access.ActionUpdate, id)
	if err != nil {
		return zero, err
	}

	edit(entity)

	if err := service.repo.Update(context, entity); err != nil {
		return zero, err
	}

	service.logger.InfoContext(context, service.kind+"_updated", slog.String("id", id))
	return entity, nil
}

// Delete soft-deletes a submission the caller may change.
func (service *Service[T]) Delete(context context.Context, caller *sec.AuthClaims, id string) error {
	entity, err := service.load(context, caller, access.ActionDelete, id)
	if err != nil {
		return err
	}

	if err := service.repo.SoftDelete(context, id, entity.Base().Status); err != nil {
		return err
	}

	service.logger.WarnContext(context, service.kind+"_deleted", slog.String("id", id))
	return nil
}

// # Workflow

/*
Submit moves a draft to submitted.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - id: string

Returns:
  - T: The submitted entity
  - error: NotFound, InsufficientPermissions, Conflict or storage failures
*/
func (service *Service[T]) Submit(context context.Context, caller *sec.AuthClaims, id string) (T, error) {
	var zero T

	entity, err := service.load(context, caller, access.ActionSubmit, id)
	if err != nil {
		return zero, err
	}

	record := entity.Base()
	if !workflow.CanSubmit(record.Status) {
		return zero, apperr.Conflict(fmt.Sprintf("Only a draft can be submitted, current status is %s", record.Status))
	}

	at := service.now().UTC()
	if err := service.repo.Transition(context, id, []workflow.Status{workflow.StatusDraft}, workflow.StatusSubmitted, at); err != nil {
		return zero, err
	}

	record.Status = workflow.StatusSubmitted
	record.SubmittedAt = &at
	record.UpdatedAt = at

	service.logger.InfoContext(context, service.kind+"_submitted", slog.String("id", id))
	return entity, nil
}

/*
Decide records the final outcome of a reviewed submission.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims (elevated)
  - id: string
  - outcome: workflow.Status (approved or rejected)

Returns:
  - T: The decided entity
  - error: InsufficientPermissions, NotFound, ValidationError, Conflict or storage failures
*/
func (service *Service[T]) Decide(context context.Context, caller *sec.AuthClaims, id string, outcome workflow.Status) (T, error) {
	var zero T

	if !outcome.IsFinal() {
		return zero, apperr.ValidationError("Invalid decision", apperr.FieldError{
			Field:   FieldDecision,
			Message: fmt.Sprintf("Must be one of: %s, %s", workflow.StatusApproved, workflow.StatusRejected),
		})
	}

	entity, err := service.load(context, caller, access.ActionDecide, id)
	if err != nil {
		return zero, err
	}

	record := entity.Base()
	if !workflow.CanDecide(record.Status, outcome) {
		return zero, apperr.Conflict(fmt.Sprintf("A decision needs a submitted or reviewed %s, current status is %s", service.kind, record.Status))
	}

	at := service.now().UTC()
	if err := service.repo.Transition(context, id, workflow.Reviewable(), outcome, at); err != nil {
		return zero, err
	}

	record.Status = outcome
	record.DecidedAt = &at
	record.UpdatedAt = at

	service.logger.InfoContext(context, service.kind+"_decided",
		slog.String("id", id),
		slog.String("outcome", outcome.String()),
	)
	return entity, nil
}

// load reads a row inside the caller's read scope, then asks the gate
// whether action is allowed on that concrete row.
func (service *Service[T]) load(context context.Context, caller *sec.AuthClaims, action access.Action, id string) (T, error) {
	var zero T

	decision, err := service.gate.Authorize(caller, access.ActionRead, submissions)
	if err != nil {
		return zero, err
	}

	entity, err := service.repo.FindByID(context, id, decision.Scope)
	if err != nil {
		return zero, err
	}

	record := entity.Base()
	target := access.Resource{Kind: access.KindSubmission, OwnerID: record.CreatedBy, Status: record.Status}
	if _, err := service.gate.Authorize(caller, action, target); err != nil {
		return zero, err
	}

	return entity, nil
}
