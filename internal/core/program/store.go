// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package program

import (
	"context"

	"github.com/taibuivan/lppm/pkg/pagination"
)

type Repository interface {
	List(context context.Context, filter Filter, page pagination.Params) (pagination.Result[*Program], error)
	FindByID(context context.Context, id string) (*Program, error)
	Create(context context.Context, program *Program) error
	Update(context context.Context, program *Program) error
	SoftDelete(context context.Context, id string) error
}
