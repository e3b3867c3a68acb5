// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review records reviewer assessments of proposals and community-service
activities.

Each reviewer holds at most one review per target; writing again replaces it.
The first review of a submitted target moves it to under_review, inside the
same transaction that locks the target row.
*/
package review

import "time"

// # Review Enums

// Target names the kind of submission a review is attached to.
type Target string

const (
	TargetProposal         Target = "proposal"
	TargetCommunityService Target = "community_service"
)

// Recommendation is the reviewer's verdict.
type Recommendation string

const (
	RecommendationAccept Recommendation = "accept"
	RecommendationRevise Recommendation = "revise"
	RecommendationReject Recommendation = "reject"
)

// Recommendations lists the accepted verdicts.
var Recommendations = []string{string(RecommendationAccept), string(RecommendationRevise), string(RecommendationReject)}

// # Core Entities

// Review is one reviewer's assessment of one target.
type Review struct {
	ID             string         `json:"id"` // UUIDv7
	ResourceType   Target         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	ReviewerID     string         `json:"reviewer_id"`
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Comment        string         `json:"comment"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Input carries the reviewer-supplied fields.
type Input struct {
	Score          int
	Recommendation Recommendation
	Comment        string
}

const (
	FieldScore          = "score"
	FieldRecommendation = "recommendation"
	FieldComment        = "comment"
)

const (
	MinScore         = 0
	MaxScore         = 100
	maxCommentLength = 5000
)
