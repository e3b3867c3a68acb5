// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package community

import (
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/platform/database/schema"
	"github.com/taibuivan/lppm/internal/platform/postgres"
)

type Repository = submission.Repository[*Activity]

// NewPostgresRepository creates the research.communityservice repository.
func NewPostgresRepository(db postgres.DBTX) *submission.PostgresRepository[*Activity] {
	return submission.NewPostgresRepository(db, submission.Codec[*Activity]{
		Table:    schema.ResearchCommunityService,
		Resource: "Community service",
		New:      func() *Activity { return &Activity{} },
		Fields: func(a *Activity) []any {
			return []any{&a.Summary, &a.Partner, &a.Location}
		},
	})
}
