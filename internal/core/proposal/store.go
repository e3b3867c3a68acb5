// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import "github.com/taibuivan/lppm/internal/core/submission"

// Repository persists proposals.
type Repository = submission.Repository[*Proposal]
