// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package submission implements the lifecycle shared by own-authored research
resources: research proposals and community-service reports.

# Core Responsibility

  - Ownership: every row records its author, and non-elevated callers only
    ever see rows the access gate scopes them to.
  - Workflow: draft, submitted, under_review, then approved or rejected.
  - Storage: one generic PostgreSQL repository parameterized by a [Codec]
    that names the table and its resource-specific columns.

The proposal and community packages embed [Record] in their entities and wrap
[Service] with their own validation and routes.
*/
package submission

import (
	"time"

	"github.com/taibuivan/lppm/internal/core/workflow"
)

// # Core Entities

// Record holds the columns every submission table shares.
type Record struct {
	ID          string          `json:"id"` // UUIDv7
	Title       string          `json:"title"`
	FiscalYear  int             `json:"fiscal_year"`
	Budget      float64         `json:"budget"`
	Status      workflow.Status `json:"status"`
	ProgramID   *string         `json:"program_id,omitempty"`
	CreatedBy   string          `json:"created_by"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Base returns the record itself, so an entity embedding Record satisfies [Entity].
func (record *Record) Base() *Record {
	return record
}

// Entity is a submission type: a pointer to a struct embedding [Record].
type Entity interface {
	Base() *Record
}

// Filter holds the parameters for a paginated submission search. It narrows
// the result further inside the access scope, never beyond it.
type Filter struct {
	Status     *workflow.Status
	FiscalYear *int
	ProgramID  string
	Search     string // Matches the title
}

// Stats counts submissions per status.
type Stats struct {
	Total    int                     `json:"total"`
	ByStatus map[workflow.Status]int `json:"by_status"`
}

// NewStats builds [Stats] with every status present.
func NewStats(counts map[workflow.Status]int) Stats {
	stats := Stats{ByStatus: make(map[workflow.Status]int, len(workflow.Statuses))}
	for _, status := range workflow.Statuses {
		stats.ByStatus[status] = counts[status]
		stats.Total += counts[status]
	}
	return stats
}

// Field names shared by the submission payloads.
const (
	FieldTitle      = "title"
	FieldFiscalYear = "fiscal_year"
	FieldBudget     = "budget"
	FieldStatus     = "status"
	FieldProgramID  = "program_id"
	FieldDecision   = "decision"
)

// Validation bounds shared by the submission payloads.
const (
	MaxTitleLength = 300
	MinFiscalYear  = 2000
	MaxFiscalYear  = 2100
)
