// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"time"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// Repository persists one submission type. Every read takes the access scope
// and applies it inside the query.
type Repository[T Entity] interface {
	List(context context.Context, filter Filter, scope access.Scope, page pagination.Params) (pagination.Result[T], error)
	FindByID(context context.Context, id string, scope access.Scope) (T, error)
	Create(context context.Context, entity T) error
	Update(context context.Context, entity T) error

	// SoftDelete removes a row that is still in the status the caller read.
	// A row that moved on yields a Conflict.
	SoftDelete(context context.Context, id string, status workflow.Status) error

	// Transition moves a row from one of the given states to the target
	// state, stamping submittedat or decidedat. A row no longer in any of the
	// from states yields a Conflict.
	Transition(context context.Context, id string, from []workflow.Status, to workflow.Status, at time.Time) error

	CountByStatus(context context.Context, scope access.Scope) (map[workflow.Status]int, error)
}
