// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ResearchReviewTable represents the 'research.review' table
type ResearchReviewTable struct {
	Table          string
	ID             string
	ResourceType   string
	ResourceID     string
	ReviewerID     string
	Score          string
	Recommendation string
	Comment        string
	CreatedAt      string
	UpdatedAt      string
}

// ResearchReview is the schema definition for research.review
var ResearchReview = ResearchReviewTable{
	Table:          "research.review",
	ID:             "id",
	ResourceType:   "resourcetype",
	ResourceID:     "resourceid",
	ReviewerID:     "reviewerid",
	Score:          "score",
	Recommendation: "recommendation",
	Comment:        "comment",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t ResearchReviewTable) Columns() []string {
	return []string{
		t.ID, t.ResourceType, t.ResourceID, t.ReviewerID, t.Score,
		t.Recommendation, t.Comment, t.CreatedAt, t.UpdatedAt,
	}
}
