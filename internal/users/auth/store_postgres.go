// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/database/schema"
	"github.com/taibuivan/lppm/internal/platform/dberr"
	"github.com/taibuivan/lppm/internal/platform/postgres"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/pagination"
	"github.com/taibuivan/lppm/pkg/query"
)

// # Identity Repository

var account = schema.UsersAccount

// identityColumns is the projection shared by every identity read.
var identityColumns = strings.Join(account.Columns(), ", ")

// PostgresIdentityRepository implements [IdentityRepository] on users.account.
type PostgresIdentityRepository struct {
	db postgres.DBTX
}

// NewIdentityRepository creates a PostgreSQL implementation of [IdentityRepository].
func NewIdentityRepository(db postgres.DBTX) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{db: db}
}

// scanIdentity hydrates one row and canonicalizes its role, so legacy
// spellings stored by the previous portal never reach the policy gate.
func scanIdentity(row pgx.Row, extra ...any) (*Identity, error) {
	identity := &Identity{}
	var rawRole string

	targets := []any{
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Name,
		&rawRole,
		&identity.IsActive,
		&identity.IdentityNumber,
		&identity.Department,
		&identity.Institution,
		&identity.ProgramID,
		&identity.LastLoginAt,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	role, err := sec.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("postgres_identity_repo_invalid_role: %w", err)
	}
	identity.Role = role

	return identity, nil
}

/*
FindByEmail retrieves an account by its exact email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Identity: Hydrated account, active or not
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		identityColumns, account.Table, account.Email, account.DeletedAt)

	identity, err := scanIdentity(repository.db.QueryRow(context, statement, email))
	if err != nil {
		return nil, notFoundOr(err, "postgres_identity_repo_find_by_email_failed")
	}

	return identity, nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Identity: Hydrated account, active or not
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) FindByID(context context.Context, id string) (*Identity, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		identityColumns, account.Table, account.ID, account.DeletedAt)

	identity, err := scanIdentity(repository.db.QueryRow(context, statement, id))
	if err != nil {
		return nil, notFoundOr(err, "postgres_identity_repo_find_by_id_failed")
	}

	return identity, nil
}

/*
TouchLastLogin stamps lastloginat without touching updatedat.

Parameters:
  - context: context.Context
  - id: string
  - at: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresIdentityRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	statement := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		account.Table, account.LastLoginAt, account.ID, account.DeletedAt)

	if _, err := repository.db.Exec(context, statement, id, at); err != nil {
		return fmt.Errorf("postgres_identity_repo_touch_last_login_failed: %w", err)
	}
	return nil
}

/*
UpdatePassword replaces the password digest of a live account.

Parameters:
  - context: context.Context
  - id: string
  - digest: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresIdentityRepository) UpdatePassword(context context.Context, id, digest string) error {
	statement := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL`,
		account.Table, account.Password, account.UpdatedAt, account.ID, account.DeletedAt)

	tag, err := repository.db.Exec(context, statement, id, digest)
	if err != nil {
		return fmt.Errorf("postgres_identity_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
Create inserts a new account.

Description: Initializes timestamps when unset. A duplicate email surfaces
as apperr.Conflict.

Parameters:
  - context: context.Context
  - identity: *Identity

Returns:
  - error: apperr.Conflict or database errors
*/
func (repository *PostgresIdentityRepository) Create(context context.Context, identity *Identity) error {
	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		account.Table,
		account.ID, account.Email, account.Password, account.Name, account.Role, account.IsActive,
		account.IdentityNumber, account.Department, account.Institution, account.ProgramID,
		account.CreatedAt, account.UpdatedAt)

	now := time.Now().UTC()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	_, err := repository.db.Exec(context, statement,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.Name,
		identity.Role.String(),
		identity.IsActive,
		identity.IdentityNumber,
		identity.Department,
		identity.Institution,
		identity.ProgramID,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Email is already registered")
	}
	return dberr.Wrap(err, "postgres_identity_repo_create_failed")
}

/*
Update persists profile, role and status changes.

Parameters:
  - context: context.Context
  - identity: *Identity

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) Update(context context.Context, identity *Identity) error {
	statement := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9
		WHERE %s = $1 AND %s IS NULL`,
		account.Table,
		account.Name, account.Role, account.IsActive, account.IdentityNumber,
		account.Department, account.Institution, account.ProgramID, account.UpdatedAt,
		account.ID, account.DeletedAt)

	identity.UpdatedAt = time.Now().UTC()

	tag, err := repository.db.Exec(context, statement,
		identity.ID,
		identity.Name,
		identity.Role.String(),
		identity.IsActive,
		identity.IdentityNumber,
		identity.Department,
		identity.Institution,
		identity.ProgramID,
		identity.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_identity_repo_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
List returns a filtered page of accounts.

Description: Builds the WHERE clause from the non-nil filter fields and
counts the full result with a window function in the same round-trip.

Parameters:
  - context: context.Context
  - filter: IdentityFilter
  - page: pagination.Params

Returns:
  - pagination.Result[*Identity]: Page and total
  - error: Database errors
*/
func (repository *PostgresIdentityRepository) List(context context.Context, filter IdentityFilter, page pagination.Params) (pagination.Result[*Identity], error) {
	var builder strings.Builder
	var args []any
	argID := 1

	fmt.Fprintf(&builder, `SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE %s IS NULL`,
		identityColumns, account.Table, account.DeletedAt)

	if filter.Role != nil {
		fmt.Fprintf(&builder, " AND %s = $%d", account.Role, argID)
		args = append(args, filter.Role.String())
		argID++
	}

	if filter.IsActive != nil {
		fmt.Fprintf(&builder, " AND %s = $%d", account.IsActive, argID)
		args = append(args, *filter.IsActive)
		argID++
	}

	if filter.Search != "" {
		fmt.Fprintf(&builder, " AND (%[2]s ILIKE $%[1]d OR %[3]s ILIKE $%[1]d OR %[4]s ILIKE $%[1]d)",
			argID, account.Name, account.Email, account.IdentityNumber)
		args = append(args, query.Contains(filter.Search))
		argID++
	}

	fmt.Fprintf(&builder, " ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d", account.CreatedAt, account.ID, argID, argID+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return pagination.Result[*Identity]{}, fmt.Errorf("postgres_identity_repo_list_failed: %w", err)
	}
	defer rows.Close()

	result := pagination.Result[*Identity]{Items: []*Identity{}}
	for rows.Next() {
		var total int
		identity, err := scanIdentity(rows, &total)
		if err != nil {
			return pagination.Result[*Identity]{}, fmt.Errorf("postgres_identity_repo_list_scan_failed: %w", err)
		}
		result.Items = append(result.Items, identity)
		result.Total = total
	}

	if err := rows.Err(); err != nil {
		return pagination.Result[*Identity]{}, fmt.Errorf("postgres_identity_repo_list_failed: %w", err)
	}

	return result, nil
}

/*
SoftDelete marks an account deleted and inactive.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresIdentityRepository) SoftDelete(context context.Context, id string) error {
	statement := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = NOW(), %[3]s = FALSE, %[4]s = NOW()
		WHERE %[5]s = $1 AND %[2]s IS NULL`,
		account.Table, account.DeletedAt, account.IsActive, account.UpdatedAt, account.ID)

	tag, err := repository.db.Exec(context, statement, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_identity_repo_soft_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
CountByRole aggregates live accounts per role.

Description: Legacy role spellings are folded into their canonical role.

Parameters:
  - context: context.Context

Returns:
  - map[sec.Role]int: Counts per canonical role
  - error: Database errors
*/
func (repository *PostgresIdentityRepository) CountByRole(context context.Context) (map[sec.Role]int, error) {
	statement := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM %[2]s WHERE %[3]s IS NULL GROUP BY %[1]s`,
		account.Role, account.Table, account.DeletedAt)

	rows, err := repository.db.Query(context, statement)
	if err != nil {
		return nil, fmt.Errorf("postgres_identity_repo_count_by_role_failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[sec.Role]int)
	for rows.Next() {
		var rawRole string
		var count int
		if err := rows.Scan(&rawRole, &count); err != nil {
			return nil, fmt.Errorf("postgres_identity_repo_count_by_role_scan_failed: %w", err)
		}

		role, err := sec.ParseRole(rawRole)
		if err != nil {
			continue
		}
		counts[role] += count
	}

	return counts, rows.Err()
}

// notFoundOr maps a missing row to a 404 and wraps anything else with action.
func notFoundOr(err error, action string) error {
	if mapped := dberr.Wrap(err, action); apperr.HasCode(mapped, apperr.CodeNotFound) {
		return apperr.NotFound("User")
	}
	return fmt.Errorf("%s: %w", action, err)
}
