// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns of the portal's PostgreSQL schemas.

Repositories build their statements from these definitions so a column rename
is a one-line change.
*/
package schema

// CoreStudyProgramTable represents the 'core.studyprogram' table
type CoreStudyProgramTable struct {
	Table     string
	ID        string
	Code      string
	Name      string
	Slug      string
	Faculty   string
	Degree    string
	IsActive  string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// CoreStudyProgram is the schema definition for core.studyprogram
var CoreStudyProgram = CoreStudyProgramTable{
	Table:     "core.studyprogram",
	ID:        "id",
	Code:      "code",
	Name:      "name",
	Slug:      "slug",
	Faculty:   "faculty",
	Degree:    "degree",
	IsActive:  "isactive",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

// Columns returns the projection read by the repositories.
func (t CoreStudyProgramTable) Columns() []string {
	return []string{t.ID, t.Code, t.Name, t.Slug, t.Faculty, t.Degree, t.IsActive, t.CreatedAt, t.UpdatedAt}
}
