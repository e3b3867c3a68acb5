// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package community manages community-service activities: projects run with
// a partner organization at a location outside the campus.
package community

import "github.com/taibuivan/lppm/internal/core/submission"

// Activity is a community-service activity.
type Activity struct {
	submission.Record
	Summary  string `json:"summary"`
	Partner  string `json:"partner"`
	Location string `json:"location"`
}

const (
	FieldSummary  = "summary"
	FieldPartner  = "partner"
	FieldLocation = "location"
)

const (
	maxSummaryLength = 5000
	maxPartnerLength = 200
	maxPlaceLength   = 200
)
