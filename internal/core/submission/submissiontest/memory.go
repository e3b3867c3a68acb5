// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package submissiontest provides an in-memory submission repository for tests.
package submissiontest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// Memory implements [submission.Repository] on a map, applying access scopes
// the way the SQL repository does.
type Memory[T submission.Entity] struct {
	mu       sync.Mutex
	rows     map[string]T
	order    []string
	resource string
	clone    func(T) T
}

// NewMemory creates an empty repository. clone must return a deep enough copy
// that callers cannot mutate stored rows.
func NewMemory[T submission.Entity](resource string, clone func(T) T) *Memory[T] {
	return &Memory[T]{rows: make(map[string]T), resource: resource, clone: clone}
}

// Row returns a stored row regardless of scope, for assertions.
func (memory *Memory[T]) Row(id string) (T, bool) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	row, ok := memory.rows[id]
	if !ok {
		return row, false
	}
	return memory.clone(row), true
}

func (memory *Memory[T]) List(_ context.Context, filter submission.Filter, scope access.Scope, page pagination.Params) (pagination.Result[T], error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	var matched []T
	for index := len(memory.order) - 1; index >= 0; index-- {
		row, ok := memory.rows[memory.order[index]]
		if !ok {
			continue
		}
		record := row.Base()
		if !scope.Admits(record.CreatedBy, record.Status) || !matches(record, filter) {
			continue
		}
		matched = append(matched, memory.clone(row))
	}

	result := pagination.Result[T]{Items: []T{}, Total: len(matched)}
	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit, len(matched))
	result.Items = append(result.Items, matched[start:end]...)

	return result, nil
}

func (memory *Memory[T]) FindByID(_ context.Context, id string, scope access.Scope) (T, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	row, ok := memory.rows[id]
	if !ok || !scope.Admits(row.Base().CreatedBy, row.Base().Status) {
		var zero T
		return zero, apperr.NotFound(memory.resource)
	}
	return memory.clone(row), nil
}

func (memory *Memory[T]) Create(_ context.Context, entity T) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	record := entity.Base()
	now := time.Now().UTC()
	record.CreatedAt, record.UpdatedAt = now, now

	memory.rows[record.ID] = memory.clone(entity)
	memory.order = append(memory.order, record.ID)
	return nil
}

func (memory *Memory[T]) Update(_ context.Context, entity T) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	record := entity.Base()
	stored, ok := memory.rows[record.ID]
	if !ok || stored.Base().Status != record.Status {
		return apperr.Conflict(memory.resource + " was changed by another request, reload and retry")
	}

	record.UpdatedAt = time.Now().UTC()
	memory.rows[record.ID] = memory.clone(entity)
	return nil
}

func (memory *Memory[T]) SoftDelete(_ context.Context, id string, status workflow.Status) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	stored, ok := memory.rows[id]
	if !ok || stored.Base().Status != status {
		return apperr.Conflict(memory.resource + " was changed by another request, reload and retry")
	}
	delete(memory.rows, id)
	return nil
}

func (memory *Memory[T]) Transition(_ context.Context, id string, from []workflow.Status, to workflow.Status, at time.Time) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	row, ok := memory.rows[id]
	if !ok || !slices.Contains(from, row.Base().Status) {
		return apperr.Conflict(memory.resource + " was changed by another request, reload and retry")
	}

	record := row.Base()
	record.Status = to
	record.UpdatedAt = at
	switch {
	case to == workflow.StatusSubmitted:
		record.SubmittedAt = &at
	case to.IsFinal():
		record.DecidedAt = &at
	}
	return nil
}

// SetStatus forces a row into status, bypassing the workflow, for seeding.
func (memory *Memory[T]) SetStatus(id string, status workflow.Status) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if row, ok := memory.rows[id]; ok {
		row.Base().Status = status
	}
}

func (memory *Memory[T]) CountByStatus(_ context.Context, scope access.Scope) (map[workflow.Status]int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	counts := make(map[workflow.Status]int)
	for _, row := range memory.rows {
		record := row.Base()
		if scope.Admits(record.CreatedBy, record.Status) {
			counts[record.Status]++
		}
	}
	return counts, nil
}

func matches(record *submission.Record, filter submission.Filter) bool {
	if filter.Status != nil && record.Status != *filter.Status {
		return false
	}
	if filter.FiscalYear != nil && record.FiscalYear != *filter.FiscalYear {
		return false
	}
	if filter.ProgramID != "" && (record.ProgramID == nil || *record.ProgramID != filter.ProgramID) {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(record.Title), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}
