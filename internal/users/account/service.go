// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/users/auth"
	"github.com/taibuivan/lppm/pkg/pagination"
	"github.com/taibuivan/lppm/pkg/pointer"
	"github.com/taibuivan/lppm/pkg/uuid"
)

// # Service Layer

// Service orchestrates account administration and self-service profiles.
type Service struct {
	accountRepository AccountRepository
	gate              *access.Gate
	hasher            *sec.PasswordHasher
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, gate *access.Gate, hasher *sec.PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		gate:              gate,
		hasher:            hasher,
		logger:            logger,
	}
}

var accounts = access.Resource{Kind: access.KindAccount}

// # Administration

/*
List returns a filtered page of accounts.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - filter: auth.IdentityFilter
  - page: pagination.Params

Returns:
  - pagination.Result[*auth.Identity]: One page of accounts
  - error: InsufficientPermissions or storage failures
*/
func (service *Service) List(context context.Context, caller *sec.AuthClaims, filter auth.IdentityFilter, page pagination.Params) (pagination.Result[*auth.Identity], error) {
	if _, err := service.gate.Authorize(caller, access.ActionList, accounts); err != nil {
		return pagination.Result[*auth.Identity]{}, err
	}
	return service.accountRepository.List(context, filter, page)
}

/*
Get returns one account.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - id: string

Returns:
  - *auth.Identity: The account
  - error: InsufficientPermissions, NotFound or storage failures
*/
func (service *Service) Get(context context.Context, caller *sec.AuthClaims, id string) (*auth.Identity, error) {
	if _, err := service.gate.Authorize(caller, access.ActionRead, accounts); err != nil {
		return nil, err
	}
	return service.accountRepository.FindByID(context, id)
}

/*
Create registers a new active account.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - input: CreateInput

Returns:
  - *auth.Identity: Created account
  - error: InsufficientPermissions, Conflict on a taken email, or storage failures
*/
func (service *Service) Create(context context.Context, caller *sec.AuthClaims, input CreateInput) (*auth.Identity, error) {
	if _, err := service.gate.Authorize(caller, access.ActionCreate, accounts); err != nil {
		return nil, err
	}
	if err := service.gate.CanAssignRole(caller, input.Role); err != nil {
		return nil, err
	}

	digest, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	identity := &auth.Identity{
		ID:             uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:   digest,
		Name:           input.Name,
		Role:           input.Role,
		IsActive:       true,
		IdentityNumber: input.IdentityNumber,
		Department:     input.Department,
		Institution:    input.Institution,
	}
	identity.ProgramID = pointer.NonEmpty(input.ProgramID)

	if err := service.accountRepository.Create(context, identity); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_created",
		slog.String("account_id", identity.ID),
		slog.String("account_role", identity.Role.String()),
		slog.String("created_by", caller.UserID()),
	)

	return identity, nil
}

/*
Update applies an administrative partial update.

Description: Editing another elevated account, or granting an elevated role,
is reserved for super administrators. Callers cannot deactivate themselves.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - id: string
  - input: UpdateInput

Returns:
  - *auth.Identity: Updated account
  - error: InsufficientPermissions, NotFound, Unprocessable or storage failures
*/
func (service *Service) Update(context context.Context, caller *sec.AuthClaims, id string, input UpdateInput) (*auth.Identity, error) {
	if _, err := service.gate.Authorize(caller, access.ActionUpdate, accounts); err != nil {
		return nil, err
	}

	identity, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Any edit of another elevated account, deactivation included, needs the
	// right to grant its role.
	if id != caller.UserID() {
		if err := service.gate.CanAssignRole(caller, identity.Role); err != nil {
			return nil, err
		}
	}

	if input.Role != nil && *input.Role != identity.Role {
		if err := service.gate.CanAssignRole(caller, *input.Role); err != nil {
			return nil, err
		}
		identity.Role = *input.Role
	}

	if input.IsActive != nil {
		if !*input.IsActive && id == caller.UserID() {
			return nil, apperr.Unprocessable("You cannot deactivate your own account")
		}
		identity.IsActive = *input.IsActive
	}

	if input.Name != nil {
		identity.Name = *input.Name
	}
	if input.IdentityNumber != nil {
		identity.IdentityNumber = *input.IdentityNumber
	}
	if input.Department != nil {
		identity.Department = *input.Department
	}
	if input.Institution != nil {
		identity.Institution = *input.Institution
	}
	if input.ProgramID != nil {
		identity.ProgramID = pointer.NonEmpty(input.ProgramID)
	}

	if err := service.accountRepository.Update(context, identity); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_updated", slog.String("account_id", id))
	return identity, nil
}

/*
Delete soft-deletes an account.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - id: string

Returns:
  - error: InsufficientPermissions, NotFound, Unprocessable or storage failures
*/
func (service *Service) Delete(context context.Context, caller *sec.AuthClaims, id string) error {
	if _, err := service.gate.Authorize(caller, access.ActionDelete, accounts); err != nil {
		return err
	}
	if id == caller.UserID() {
		return apperr.Unprocessable("You cannot delete your own account")
	}

	identity, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return err
	}
	if err := service.gate.CanAssignRole(caller, identity.Role); err != nil {
		return err
	}

	if err := service.accountRepository.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "account_deleted", slog.String("account_id", id))
	return nil
}

// # Self Service

/*
UpdateProfile lets any authenticated caller edit their own profile fields.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - input: ProfileInput

Returns:
  - *auth.Identity: Updated profile
  - error: Unauthorized, NotFound or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, caller *sec.AuthClaims, input ProfileInput) (*auth.Identity, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("No token provided")
	}

	identity, err := service.accountRepository.FindByID(context, caller.UserID())
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		identity.Name = *input.Name
	}
	if input.Department != nil {
		identity.Department = *input.Department
	}
	if input.Institution != nil {
		identity.Institution = *input.Institution
	}

	if err := service.accountRepository.Update(context, identity); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "profile_updated")
	return identity, nil
}
