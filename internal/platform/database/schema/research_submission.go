// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ResearchSubmissionTable describes the columns shared by research.proposal
// and research.communityservice. Body holds the table-specific text columns.
type ResearchSubmissionTable struct {
	Table       string
	ID          string
	Title       string
	Body        []string
	FiscalYear  string
	Budget      string
	Status      string
	ProgramID   string
	CreatedBy   string
	SubmittedAt string
	DecidedAt   string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// ResearchProposal is the schema definition for research.proposal
var ResearchProposal = ResearchSubmissionTable{
	Table:       "research.proposal",
	ID:          "id",
	Title:       "title",
	Body:        []string{"abstract", "scheme"},
	FiscalYear:  "fiscalyear",
	Budget:      "budget",
	Status:      "status",
	ProgramID:   "programid",
	CreatedBy:   "createdby",
	SubmittedAt: "submittedat",
	DecidedAt:   "decidedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// ResearchCommunityService is the schema definition for research.communityservice
var ResearchCommunityService = ResearchSubmissionTable{
	Table:       "research.communityservice",
	ID:          "id",
	Title:       "title",
	Body:        []string{"summary", "partner", "location"},
	FiscalYear:  "fiscalyear",
	Budget:      "budget",
	Status:      "status",
	ProgramID:   "programid",
	CreatedBy:   "createdby",
	SubmittedAt: "submittedat",
	DecidedAt:   "decidedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns the projection read by the repositories, body columns
// following the title.
func (t ResearchSubmissionTable) Columns() []string {
	columns := []string{t.ID, t.Title}
	columns = append(columns, t.Body...)
	return append(columns,
		t.FiscalYear, t.Budget, t.Status, t.ProgramID, t.CreatedBy,
		t.SubmittedAt, t.DecidedAt, t.CreatedAt, t.UpdatedAt,
	)
}
