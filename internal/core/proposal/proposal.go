// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package proposal manages research proposals submitted to the institute for
// funding under one of its research schemes.
package proposal

import "github.com/taibuivan/lppm/internal/core/submission"

// # Research Schemes

// Scheme is the funding track a proposal applies for.
type Scheme string

const (
	SchemeBasic         Scheme = "basic"
	SchemeApplied       Scheme = "applied"
	SchemeCollaborative Scheme = "collaborative"
	SchemeStudent       Scheme = "student"
)

// Schemes lists the accepted scheme values.
var Schemes = []string{string(SchemeBasic), string(SchemeApplied), string(SchemeCollaborative), string(SchemeStudent)}

// # Core Entities

// Proposal is a research proposal.
type Proposal struct {
	submission.Record
	Abstract string `json:"abstract"`
	Scheme   Scheme `json:"scheme"`
}

const (
	FieldAbstract = "abstract"
	FieldScheme   = "scheme"
)

const maxAbstractLength = 5000
