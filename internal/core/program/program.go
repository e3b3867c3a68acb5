// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package program manages the study programs that accounts and submissions
// are attached to.
package program

import "time"

// Degree is the academic level of a study program.
type Degree string

const (
	DegreeD3 Degree = "D3"
	DegreeS1 Degree = "S1"
	DegreeS2 Degree = "S2"
	DegreeS3 Degree = "S3"
)

// Degrees lists the accepted degree values.
var Degrees = []string{string(DegreeD3), string(DegreeS1), string(DegreeS2), string(DegreeS3)}

// Program is a study program of a faculty.
type Program struct {
	ID        string    `json:"id"` // UUIDv7
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Faculty   string    `json:"faculty"`
	Degree    Degree    `json:"degree"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter holds the parameters for a paginated program search.
type Filter struct {
	Faculty  string
	Degree   *Degree
	IsActive *bool
	Query    string // Matches code and name
}

// CreateInput carries the fields of a new program.
type CreateInput struct {
	Code    string
	Name    string
	Faculty string
	Degree  Degree
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Code     *string
	Name     *string
	Faculty  *string
	Degree   *Degree
	IsActive *bool
}

const (
	FieldCode     = "code"
	FieldName     = "name"
	FieldFaculty  = "faculty"
	FieldDegree   = "degree"
	FieldIsActive = "is_active"
)

const (
	maxCodeLength    = 20
	maxNameLength    = 150
	maxFacultyLength = 150
)
