// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/database/schema"
	"github.com/taibuivan/lppm/internal/platform/dberr"
	"github.com/taibuivan/lppm/internal/platform/postgres"
)

// Database is a pool that can also open transactions.
type Database interface {
	postgres.DBTX
	postgres.TxBeginner
}

type PostgresRepository struct {
	db Database
}

func NewPostgresRepository(db Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type targetTable struct {
	table    schema.ResearchSubmissionTable
	resource string
}

var targets = map[Target]targetTable{
	TargetProposal:         {schema.ResearchProposal, "Proposal"},
	TargetCommunityService: {schema.ResearchCommunityService, "Community service"},
}

func lookup(target Target) (targetTable, error) {
	entry, ok := targets[target]
	if !ok {
		return targetTable{}, fmt.Errorf("postgres_review_repo_unknown_target: %q", target)
	}
	return entry, nil
}

/*
Upsert writes a review inside one transaction.

Description: Locks the target row with SELECT ... FOR UPDATE so concurrent
reviews and decisions serialize, inserts or replaces the caller's review
keyed by (resourcetype, resourceid, reviewerid), then moves a submitted
target to under_review.

Parameters:
  - context: context.Context
  - review: *Review (ID, CreatedAt and UpdatedAt are filled in)

Returns:
  - workflow.Status: Target status after the write
  - error: NotFound, Conflict or database errors
*/
func (repository *PostgresRepository) Upsert(context context.Context, review *Review) (workflow.Status, error) {
	entry, err := lookup(review.ResourceType)
	if err != nil {
		return "", err
	}

	target := entry.table
	reviews := schema.ResearchReview

	var next workflow.Status

	err = postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		lock := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL FOR UPDATE",
			target.Status, target.Table, target.ID, target.DeletedAt,
		)

		var current workflow.Status
		if err := tx.QueryRow(context, lock, review.ResourceID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(entry.resource)
			}
			return fmt.Errorf("postgres_review_repo_lock_failed: %w", err)
		}

		if !current.IsReviewable() {
			return apperr.Conflict(fmt.Sprintf("%s is not open for review, current status is %s", entry.resource, current))
		}

		upsert := fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			ON CONFLICT (%[3]s, %[4]s, %[5]s) DO UPDATE
			SET %[6]s = EXCLUDED.%[6]s, %[7]s = EXCLUDED.%[7]s, %[8]s = EXCLUDED.%[8]s, %[10]s = NOW()
			RETURNING %[2]s, %[9]s, %[10]s`,
			reviews.Table, reviews.ID, reviews.ResourceType, reviews.ResourceID, reviews.ReviewerID,
			reviews.Score, reviews.Recommendation, reviews.Comment, reviews.CreatedAt, reviews.UpdatedAt,
		)

		err := tx.QueryRow(context, upsert,
			review.ID,
			string(review.ResourceType),
			review.ResourceID,
			review.ReviewerID,
			review.Score,
			string(review.Recommendation),
			review.Comment,
		).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			return fmt.Errorf("postgres_review_repo_upsert_failed: %w", err)
		}

		next = workflow.AfterReview(current)
		if next == current {
			return nil
		}

		advance := fmt.Sprintf("UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1",
			target.Table, target.Status, target.UpdatedAt, target.ID,
		)
		if _, err := tx.Exec(context, advance, review.ResourceID, next.String()); err != nil {
			return fmt.Errorf("postgres_review_repo_advance_failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return next, nil
}

// Visible checks the target exists within scope.
func (repository *PostgresRepository) Visible(context context.Context, target Target, resourceID string, scope access.Scope) error {
	entry, err := lookup(target)
	if err != nil {
		return err
	}
	table := entry.table

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL", table.Table, table.ID, table.DeletedAt)

	args := submission.WriteScope(&builder, table, scope, []any{resourceID})

	var found int
	if err := repository.db.QueryRow(context, builder.String(), args...).Scan(&found); err != nil {
		wrapped := dberr.Wrap(err, "postgres_review_repo_visible_failed")
		if apperr.HasCode(wrapped, apperr.CodeNotFound) {
			return apperr.NotFound(entry.resource)
		}
		return wrapped
	}
	return nil
}

// ListByTarget returns every review of one target, oldest first.
func (repository *PostgresRepository) ListByTarget(context context.Context, target Target, resourceID string) ([]*Review, error) {
	reviews := schema.ResearchReview
	statement := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s ASC",
		strings.Join(reviews.Columns(), ", "), reviews.Table, reviews.ResourceType, reviews.ResourceID, reviews.CreatedAt,
	)

	rows, err := repository.db.Query(context, statement, string(target), resourceID)
	if err != nil {
		return nil, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	list := []*Review{}
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(
			&r.ID, &r.ResourceType, &r.ResourceID, &r.ReviewerID, &r.Score,
			&r.Recommendation, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_review_repo_list_scan_failed: %w", err)
		}
		list = append(list, r)
	}

	return list, rows.Err()
}
