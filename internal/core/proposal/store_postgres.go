// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"github.com/taibuivan/lppm/internal/core/submission"
	"github.com/taibuivan/lppm/internal/platform/database/schema"
	"github.com/taibuivan/lppm/internal/platform/postgres"
)

// NewPostgresRepository creates the research.proposal repository.
func NewPostgresRepository(db postgres.DBTX) *submission.PostgresRepository[*Proposal] {
	return submission.NewPostgresRepository(db, submission.Codec[*Proposal]{
		Table:    schema.ResearchProposal,
		Resource: "Proposal",
		New:      func() *Proposal { return &Proposal{} },
		Fields: func(p *Proposal) []any {
			return []any{&p.Abstract, &p.Scheme}
		},
	})
}
