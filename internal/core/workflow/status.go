// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package workflow defines the submission lifecycle shared by research
// proposals and community-service programs.
//
//	draft ──submit──▶ submitted ──first review──▶ under_review
//	                      │                            │
//	                      └──────────decide────────────┴──▶ approved | rejected
package workflow

import (
	"fmt"

	"github.com/taibuivan/lppm/pkg/slice"
)

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// Statuses lists every state in lifecycle order.
var Statuses = []Status{StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected}

// Reviewable lists the states in which reviews are accepted and reviewers may read.
func Reviewable() []Status {
	return []Status{StatusSubmitted, StatusUnderReview}
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("workflow: unknown status %q", raw)
	}
	return status, nil
}

// IsValid reports whether s is a known state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsReviewable reports whether reviews may be submitted in state s.
func (s Status) IsReviewable() bool {
	return s == StatusSubmitted || s == StatusUnderReview
}

// IsFinal reports whether s is a decision state.
func (s Status) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected
}

// String implements [fmt.Stringer].
func (s Status) String() string { return string(s) }

// Strings converts statuses for SQL array parameters.
func Strings(statuses []Status) []string {
	return slice.Map(statuses, Status.String)
}

// # Transitions

// CanSubmit reports whether a submission in state s may be submitted.
func CanSubmit(s Status) bool {
	return s == StatusDraft
}

// AfterReview returns the state a submission moves to when a review lands.
func AfterReview(s Status) Status {
	if s == StatusSubmitted {
		return StatusUnderReview
	}
	return s
}

// CanDecide reports whether a decision may be recorded in state s with the
// given outcome.
func CanDecide(s Status, outcome Status) bool {
	return s.IsReviewable() && outcome.IsFinal()
}
