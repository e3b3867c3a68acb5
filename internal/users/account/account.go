// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages portal accounts.

Administrators list, create, update and deactivate identities; every
authenticated caller may edit their own profile.

# Architecture

  - Domain: accounts are [auth.Identity] records; this package adds no entity.
  - Security: role assignment goes through [access.Gate.CanAssignRole], so only
    super administrators hand out or take away the elevated roles.
*/
package account

import (
	"context"

	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/users/auth"
	"github.com/taibuivan/lppm/pkg/pagination"
)

// # Repository Contracts

// AccountRepository is the subset of [auth.IdentityRepository] account
// management needs. [auth.PostgresIdentityRepository] satisfies it.
type AccountRepository interface {
	FindByID(context context.Context, id string) (*auth.Identity, error)
	Create(context context.Context, identity *auth.Identity) error
	Update(context context.Context, identity *auth.Identity) error
	List(context context.Context, filter auth.IdentityFilter, page pagination.Params) (pagination.Result[*auth.Identity], error)
	SoftDelete(context context.Context, id string) error
}

// # Inputs

// CreateInput holds a new account. Role is already canonical.
type CreateInput struct {
	Email          string
	Password       string
	Name           string
	Role           sec.Role
	IdentityNumber string
	Department     string
	Institution    string
	ProgramID      *string
}

// UpdateInput is a partial administrative update. Nil fields are kept.
type UpdateInput struct {
	Name           *string
	Role           *sec.Role
	IsActive       *bool
	IdentityNumber *string
	Department     *string
	Institution    *string
	ProgramID      *string
}

// ProfileInput is the self-service subset of [UpdateInput].
type ProfileInput struct {
	Name        *string
	Department  *string
	Institution *string
}

// # Field Identifiers

const (
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldName           = "name"
	FieldRole           = "role"
	FieldIsActive       = "is_active"
	FieldIdentityNumber = "identity_number"
	FieldDepartment     = "department"
	FieldInstitution    = "institution"
	FieldProgramID      = "program_id"

	maxNameLength  = 150
	maxFieldLength = 200
)
