// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/database/schema"
	"github.com/taibuivan/lppm/internal/platform/dberr"
	"github.com/taibuivan/lppm/internal/platform/postgres"
	"github.com/taibuivan/lppm/pkg/pagination"
	"github.com/taibuivan/lppm/pkg/query"
)

// # Codec

// Codec binds a submission type to its table.
type Codec[T Entity] struct {
	// Table names the table and its resource-specific body columns.
	Table schema.ResearchSubmissionTable

	// Resource is the name used in 404 messages, e.g. "Proposal".
	Resource string

	// New allocates an empty entity.
	New func() T

	// Fields returns pointers to the entity's body fields, in Table.Body order.
	// They serve as both scan targets and statement arguments.
	Fields func(T) []any
}

// # Repository

// PostgresRepository implements [Repository] for any submission table.
type PostgresRepository[T Entity] struct {
	db    postgres.DBTX
	codec Codec[T]
}

// NewPostgresRepository creates a PostgreSQL implementation of [Repository].
func NewPostgresRepository[T Entity](db postgres.DBTX, codec Codec[T]) *PostgresRepository[T] {
	return &PostgresRepository[T]{db: db, codec: codec}
}

func (repository *PostgresRepository[T]) scan(row pgx.Row, extra ...any) (T, error) {
	entity := repository.codec.New()
	record := entity.Base()

	targets := []any{&record.ID, &record.Title}
	targets = append(targets, repository.codec.Fields(entity)...)
	targets = append(targets,
		&record.FiscalYear,
		&record.Budget,
		&record.Status,
		&record.ProgramID,
		&record.CreatedBy,
		&record.SubmittedAt,
		&record.DecidedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err := row.Scan(append(targets, extra...)...); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

// WriteScope appends the access scope to a WHERE clause as mandatory
// conditions, numbering placeholders after args.
func WriteScope(builder *strings.Builder, table schema.ResearchSubmissionTable, scope access.Scope, args []any) []any {
	if scope.OwnerID != "" {
		args = append(args, scope.OwnerID)
		fmt.Fprintf(builder, " AND %s = $%d", table.CreatedBy, len(args))
	}
	if len(scope.Statuses) > 0 {
		args = append(args, workflow.Strings(scope.Statuses))
		fmt.Fprintf(builder, " AND %s = ANY($%d)", table.Status, len(args))
	}
	return args
}

/*
List returns one page of the rows inside scope matching filter.

Parameters:
  - context: context.Context
  - filter: Filter
  - scope: access.Scope
  - page: pagination.Params

Returns:
  - pagination.Result[T]: Page and total
  - error: Database errors
*/
func (repository *PostgresRepository[T]) List(context context.Context, filter Filter, scope access.Scope, page pagination.Params) (pagination.Result[T], error) {
	table := repository.codec.Table

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT %s, COUNT(*) OVER() FROM %s WHERE %s IS NULL",
		strings.Join(table.Columns(), ", "), table.Table, table.DeletedAt,
	)

	args := WriteScope(&builder, table, scope, nil)

	if filter.Status != nil {
		args = append(args, filter.Status.String())
		fmt.Fprintf(&builder, " AND %s = $%d", table.Status, len(args))
	}
	if filter.FiscalYear != nil {
		args = append(args, *filter.FiscalYear)
		fmt.Fprintf(&builder, " AND %s = $%d", table.FiscalYear, len(args))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		fmt.Fprintf(&builder, " AND %s = $%d", table.ProgramID, len(args))
	}
	if filter.Search != "" {
		args = append(args, query.Contains(filter.Search))
		fmt.Fprintf(&builder, " AND %s ILIKE $%d", table.Title, len(args))
	}

	args = append(args, page.Limit, page.Offset())
	fmt.Fprintf(&builder, " ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d",
		table.CreatedAt, table.ID, len(args)-1, len(args),
	)

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return pagination.Result[T]{}, fmt.Errorf("postgres_submission_repo_list_failed: %w", err)
	}
	defer rows.Close()

	result := pagination.Result[T]{Items: []T{}}
	for rows.Next() {
		var total int
		entity, err := repository.scan(rows, &total)
		if err != nil {
			return pagination.Result[T]{}, fmt.Errorf("postgres_submission_repo_list_scan_failed: %w", err)
		}
		result.Items = append(result.Items, entity)
		result.Total = total
	}

	if err := rows.Err(); err != nil {
		return pagination.Result[T]{}, fmt.Errorf("postgres_submission_repo_list_failed: %w", err)
	}
	return result, nil
}

/*
FindByID retrieves one row inside scope.

Description: A row outside the scope is reported exactly like a missing row.

Parameters:
  - context: context.Context
  - id: string
  - scope: access.Scope

Returns:
  - T: The entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository[T]) FindByID(context context.Context, id string, scope access.Scope) (T, error) {
	table := repository.codec.Table

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		strings.Join(table.Columns(), ", "), table.Table, table.ID, table.DeletedAt,
	)
	args := WriteScope(&builder, table, scope, []any{id})

	entity, err := repository.scan(repository.db.QueryRow(context, builder.String(), args...))
	if err != nil {
		var zero T
		return zero, repository.mapError(err, "postgres_submission_repo_find_failed")
	}
	return entity, nil
}

/*
Create inserts a new row.

Parameters:
  - context: context.Context
  - entity: T

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository[T]) Create(context context.Context, entity T) error {
	table := repository.codec.Table
	record := entity.Base()

	columns := []string{table.ID, table.Title}
	columns = append(columns, table.Body...)
	columns = append(columns, table.FiscalYear, table.Budget, table.Status, table.ProgramID, table.CreatedBy, table.CreatedAt, table.UpdatedAt)

	now := time.Now().UTC()
	record.CreatedAt, record.UpdatedAt = now, now

	args := []any{record.ID, record.Title}
	args = append(args, repository.codec.Fields(entity)...)
	args = append(args, record.FiscalYear, record.Budget, record.Status.String(), record.ProgramID, record.CreatedBy, record.CreatedAt, record.UpdatedAt)

	statement := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Table, strings.Join(columns, ", "), placeholders(1, len(args)),
	)

	_, err := repository.db.Exec(context, statement, args...)
	return repository.mapError(err, "postgres_submission_repo_create_failed")
}

/*
Update persists the editable columns of a row.

Description: The row must still be in the status it was read with; a
concurrent transition yields a Conflict.

Parameters:
  - context: context.Context
  - entity: T

Returns:
  - error: apperr.Conflict or database errors
*/
func (repository *PostgresRepository[T]) Update(context context.Context, entity T) error {
	table := repository.codec.Table
	record := entity.Base()

	record.UpdatedAt = time.Now().UTC()

	args := []any{record.ID, record.Status.String(), record.Title}
	assignments := []string{fmt.Sprintf("%s = $3", table.Title)}

	for index, field := range repository.codec.Fields(entity) {
		args = append(args, field)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", table.Body[index], len(args)))
	}

	for _, column := range []struct {
		name  string
		value any
	}{
		{table.FiscalYear, record.FiscalYear},
		{table.Budget, record.Budget},
		{table.ProgramID, record.ProgramID},
		{table.UpdatedAt, record.UpdatedAt},
	} {
		args = append(args, column.value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column.name, len(args)))
	}

	statement := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1 AND %s = $2 AND %s IS NULL",
		table.Table, strings.Join(assignments, ", "), table.ID, table.Status, table.DeletedAt,
	)

	tag, err := repository.db.Exec(context, statement, args...)
	if err != nil {
		return repository.mapError(err, "postgres_submission_repo_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return errChangedConcurrently(repository.codec.Resource)
	}
	return nil
}

/*
SoftDelete marks a row deleted while it still holds the status that was read.

Parameters:
  - context: context.Context
  - id: string
  - status: workflow.Status (status at load time)

Returns:
  - error: apperr.Conflict when the row changed, or execution errors
*/
func (repository *PostgresRepository[T]) SoftDelete(context context.Context, id string, status workflow.Status) error {
	table := repository.codec.Table
	statement := fmt.Sprintf("UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL",
		table.Table, table.DeletedAt, table.ID, table.Status, table.DeletedAt,
	)

	tag, err := repository.db.Exec(context, statement, id, status.String())
	if err != nil {
		return repository.mapError(err, "postgres_submission_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return errChangedConcurrently(repository.codec.Resource)
	}
	return nil
}

/*
Transition moves a row into the target status.

Parameters:
  - context: context.Context
  - id: string
  - from: []workflow.Status (accepted current states)
  - to: workflow.Status
  - at: time.Time

Returns:
  - error: apperr.Conflict when the row left the from states, or execution errors
*/
func (repository *PostgresRepository[T]) Transition(context context.Context, id string, from []workflow.Status, to workflow.Status, at time.Time) error {
	table := repository.codec.Table

	assignments := fmt.Sprintf("%s = $2, %s = $3", table.Status, table.UpdatedAt)
	switch {
	case to == workflow.StatusSubmitted:
		assignments += fmt.Sprintf(", %s = $3", table.SubmittedAt)
	case to.IsFinal():
		assignments += fmt.Sprintf(", %s = $3", table.DecidedAt)
	}

	statement := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1 AND %s IS NULL AND %s = ANY($4)",
		table.Table, assignments, table.ID, table.DeletedAt, table.Status,
	)

	tag, err := repository.db.Exec(context, statement, id, to.String(), at, workflow.Strings(from))
	if err != nil {
		return repository.mapError(err, "postgres_submission_repo_transition_failed")
	}
	if tag.RowsAffected() == 0 {
		return errChangedConcurrently(repository.codec.Resource)
	}
	return nil
}

/*
CountByStatus aggregates the rows inside scope per status.

Parameters:
  - context: context.Context
  - scope: access.Scope

Returns:
  - map[workflow.Status]int: Row count per status
  - error: Database errors
*/
func (repository *PostgresRepository[T]) CountByStatus(context context.Context, scope access.Scope) (map[workflow.Status]int, error) {
	table := repository.codec.Table

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT %s, COUNT(*) FROM %s WHERE %s IS NULL", table.Status, table.Table, table.DeletedAt)
	args := WriteScope(&builder, table, scope, nil)
	fmt.Fprintf(&builder, " GROUP BY %s", table.Status)

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_submission_repo_count_failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[workflow.Status]int)
	for rows.Next() {
		var status workflow.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("postgres_submission_repo_count_scan_failed: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// # Helpers

func (repository *PostgresRepository[T]) mapError(err error, action string) error {
	if err == nil {
		return nil
	}
	wrapped := dberr.Wrap(err, action)
	if apperr.HasCode(wrapped, apperr.CodeNotFound) {
		return apperr.NotFound(repository.codec.Resource)
	}
	return wrapped
}

func errChangedConcurrently(resource string) *apperr.AppError {
	return apperr.Conflict(resource + " was changed by another request, reload and retry")
}

// placeholders renders "$from, ..., $to".
func placeholders(from, to int) string {
	parts := make([]string, 0, to-from+1)
	for index := from; index <= to; index++ {
		parts = append(parts, fmt.Sprintf("$%d", index))
	}
	return strings.Join(parts, ", ")
}
