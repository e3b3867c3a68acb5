// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/workflow"
)

type Repository interface {
	// Upsert writes review and advances its target, atomically. It fails with
	// NotFound when the target is missing and Conflict when the target is not
	// reviewable. It returns the target's status after the write.
	Upsert(context context.Context, review *Review) (workflow.Status, error)

	// Visible reports NotFound unless the target exists inside scope.
	Visible(context context.Context, target Target, resourceID string, scope access.Scope) error

	ListByTarget(context context.Context, target Target, resourceID string) ([]*Review, error)
}
