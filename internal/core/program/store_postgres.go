// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package program

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/database/schema"
	"github.com/taibuivan/lppm/internal/platform/dberr"
	"github.com/taibuivan/lppm/internal/platform/postgres"
	"github.com/taibuivan/lppm/pkg/pagination"
	"github.com/taibuivan/lppm/pkg/query"
)

var errNotFound = apperr.NotFound("Study program")

type PostgresRepository struct {
	db postgres.DBTX
}

func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func columns() string {
	return strings.Join(schema.CoreStudyProgram.Columns(), ", ")
}

func scanProgram(row pgx.Row, extra ...any) (*Program, error) {
	p := &Program{}
	targets := []any{&p.ID, &p.Code, &p.Name, &p.Slug, &p.Faculty, &p.Degree, &p.IsActive, &p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) (pagination.Result[*Program], error) {
	table := schema.CoreStudyProgram

	var builder strings.Builder
	var args []any
	argID := 1

	fmt.Fprintf(&builder, "SELECT %s, COUNT(*) OVER() FROM %s WHERE %s IS NULL", columns(), table.Table, table.DeletedAt)

	if filter.Faculty != "" {
		fmt.Fprintf(&builder, " AND %s = $%d", table.Faculty, argID)
		args = append(args, filter.Faculty)
		argID++
	}
	if filter.Degree != nil {
		fmt.Fprintf(&builder, " AND %s = $%d", table.Degree, argID)
		args = append(args, string(*filter.Degree))
		argID++
	}
	if filter.IsActive != nil {
		fmt.Fprintf(&builder, " AND %s = $%d", table.IsActive, argID)
		args = append(args, *filter.IsActive)
		argID++
	}
	if filter.Query != "" {
		fmt.Fprintf(&builder, " AND (%s ILIKE $%d OR %s ILIKE $%d)", table.Code, argID, table.Name, argID)
		args = append(args, query.Contains(filter.Query))
		argID++
	}

	fmt.Fprintf(&builder, " ORDER BY %s ASC, %s ASC LIMIT $%d OFFSET $%d", table.Faculty, table.Name, argID, argID+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return pagination.Result[*Program]{}, dberr.Wrap(err, "list_programs")
	}
	defer rows.Close()

	result := pagination.Result[*Program]{Items: []*Program{}}
	for rows.Next() {
		var total int
		p, err := scanProgram(rows, &total)
		if err != nil {
			return pagination.Result[*Program]{}, dberr.Wrap(err, "scan_program")
		}
		result.Items = append(result.Items, p)
		result.Total = total
	}

	return result, dberr.Wrap(rows.Err(), "list_programs")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Program, error) {
	table := schema.CoreStudyProgram
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		columns(), table.Table, table.ID, table.DeletedAt,
	)

	p, err := scanProgram(repository.db.QueryRow(context, statement, id))
	if err != nil {
		return nil, mapError(err, "get_program")
	}
	return p, nil
}

func (repository *PostgresRepository) Create(context context.Context, p *Program) error {
	table := schema.CoreStudyProgram
	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		table.Table, table.ID, table.Code, table.Name, table.Slug, table.Faculty, table.Degree,
		table.IsActive, table.CreatedAt, table.UpdatedAt,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, statement,
		p.ID, p.Code, p.Name, p.Slug, p.Faculty, string(p.Degree), p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapError(err, "create_program")
}

func (repository *PostgresRepository) Update(context context.Context, p *Program) error {
	table := schema.CoreStudyProgram
	statement := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		table.Table, table.Code, table.Name, table.Slug, table.Faculty, table.Degree, table.IsActive,
		table.UpdatedAt, table.ID, table.DeletedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, statement,
		p.ID, p.Code, p.Name, p.Slug, p.Faculty, string(p.Degree), p.IsActive,
	).Scan(&p.UpdatedAt)
	return mapError(err, "update_program")
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	table := schema.CoreStudyProgram
	statement := fmt.Sprintf(`UPDATE %s SET %s = NOW(), %s = FALSE WHERE %s = $1 AND %s IS NULL`,
		table.Table, table.DeletedAt, table.IsActive, table.ID, table.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, statement, id)
	if err != nil {
		return dberr.Wrap(err, "delete_program")
	}
	if cmd.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

// mapError names the resource in 404s and the duplicated key in 409s.
func mapError(err error, action string) error {
	if err == nil {
		return nil
	}
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Study program code or slug already exists").WithCause(err)
	}
	wrapped := dberr.Wrap(err, action)
	if apperr.HasCode(wrapped, apperr.CodeNotFound) {
		return errNotFound
	}
	return wrapped
}
