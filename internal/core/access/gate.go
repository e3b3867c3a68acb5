// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access implements the portal's access policy gate.

Every service asks the [Gate] before touching data. The gate answers with an
allow/deny decision and, for scoped callers, the row filter the store must
inject into its query:

	| Role class        | Submissions              | Catalog / accounts | Reviews  |
	|-------------------|--------------------------|--------------------|----------|
	| elevated          | all rows                 | full CRUD          | allowed  |
	| reviewer          | submitted / under_review | catalog read only  | allowed  |
	| lecturer, student | created_by = caller      | catalog read only  | denied   |
	| guest             | none                     | none               | denied   |

Because the filter is part of the query, a row outside the caller's scope is
indistinguishable from a missing row.
*/
package access

import (
	"fmt"

	"github.com/taibuivan/lppm/internal/core/workflow"
	"github.com/taibuivan/lppm/internal/platform/apperr"
	"github.com/taibuivan/lppm/internal/platform/sec"
)

// # Vocabulary

// Action is an operation requested against a resource.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionStats  Action = "stats"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSubmit Action = "submit"
	ActionReview Action = "review"
	ActionDecide Action = "decide"
)

// Kind classifies resources by how they are owned.
type Kind string

const (
	// KindSubmission covers own-authored proposals and community services.
	KindSubmission Kind = "submission"

	// KindReview covers reviews attached to a submission.
	KindReview Kind = "review"

	// KindCatalog covers reference data such as study programs.
	KindCatalog Kind = "catalog"

	// KindAccount covers identity management.
	KindAccount Kind = "account"
)

// Resource describes the target of a request. OwnerID and Status are set
// once the row is known, and left empty for pre-query decisions.
type Resource struct {
	Kind    Kind
	OwnerID string
	Status  workflow.Status
}

// Scope is the mandatory row filter for a decision. The zero value is unrestricted.
type Scope struct {
	// OwnerID, when set, restricts rows to created_by = OwnerID.
	OwnerID string

	// Statuses, when set, restricts rows to status IN Statuses.
	Statuses []workflow.Status
}

// Unrestricted reports whether the scope applies no filter.
func (scope Scope) Unrestricted() bool {
	return scope.OwnerID == "" && len(scope.Statuses) == 0
}

// Admits reports whether a row with the given owner and status falls inside the scope.
func (scope Scope) Admits(ownerID string, status workflow.Status) bool {
	if scope.OwnerID != "" && scope.OwnerID != ownerID {
		return false
	}
	if len(scope.Statuses) == 0 {
		return true
	}
	for _, allowed := range scope.Statuses {
		if allowed == status {
			return true
		}
	}
	return false
}

// Decision is an allow verdict with its row scope.
type Decision struct {
	Scope Scope
}

// # Gate

// Gate maps (identity, action, resource) to a [Decision].
//
// It holds no state and is safe for concurrent use.
type Gate struct{}

// NewGate creates the access policy gate.
func NewGate() *Gate {
	return &Gate{}
}

/*
Authorize decides whether identity may perform action on resource.

Description: Elevated roles are never scoped. Reviewers see reviewable
submissions only. Authors are scoped to their own rows and lose update,
delete and submit rights once a row leaves draft.

Parameters:
  - identity: *sec.AuthClaims (nil means anonymous)
  - action: Action
  - resource: Resource

Returns:
  - Decision: Row scope to inject into the query
  - error: apperr Unauthorized (anonymous) or InsufficientPermissions
*/
func (gate *Gate) Authorize(identity *sec.AuthClaims, action Action, resource Resource) (Decision, error) {
	if identity == nil {
		return Decision{}, apperr.Unauthorized("No token provided")
	}

	role := identity.Role
	if role.IsElevated() {
		return Decision{}, nil
	}

	switch resource.Kind {
	case KindSubmission:
		return gate.authorizeSubmission(identity, action, resource)
	case KindReview:
		return gate.authorizeReview(identity, action, resource)
	case KindCatalog:
		if role != sec.RoleGuest && isRead(action) {
			return Decision{}, nil
		}
	}

	return Decision{}, denied(role, action, resource.Kind)
}

// CanAssignRole reports whether identity may grant target to another account.
// Only super administrators hand out the elevated roles.
func (gate *Gate) CanAssignRole(identity *sec.AuthClaims, target sec.Role) error {
	if identity == nil || !identity.Role.IsElevated() {
		return denied(roleOf(identity), ActionUpdate, KindAccount)
	}
	if target.IsElevated() && identity.Role != sec.RoleSuperAdmin {
		return apperr.InsufficientPermissions(fmt.Sprintf(
			"Insufficient permissions: only super_admin may assign role %s, current role is %s", target, identity.Role,
		))
	}
	return nil
}

// authorizeSubmission applies the reviewer and author rows of the policy table.
func (gate *Gate) authorizeSubmission(identity *sec.AuthClaims, action Action, resource Resource) (Decision, error) {
	role := identity.Role

	switch {
	case role == sec.RoleReviewer:
		if isRead(action) {
			return Decision{Scope: Scope{Statuses: workflow.Reviewable()}}, nil
		}
		if action == ActionReview {
			return Decision{}, nil
		}

	case role.IsAuthor():
		switch action {
		case ActionCreate:
			return Decision{}, nil
		case ActionList, ActionRead, ActionStats:
			return Decision{Scope: Scope{OwnerID: identity.UserID()}}, nil
		case ActionUpdate, ActionDelete, ActionSubmit:
			if resource.OwnerID != "" && resource.OwnerID != identity.UserID() {
				return Decision{}, denied(role, action, resource.Kind)
			}
			if resource.Status != "" && resource.Status != workflow.StatusDraft {
				return Decision{}, apperr.InsufficientPermissions(fmt.Sprintf(
					"Insufficient permissions: a %s submission can no longer be changed by its author, current role is %s",
					resource.Status, role,
				))
			}
			return Decision{Scope: Scope{OwnerID: identity.UserID()}}, nil
		}
	}

	return Decision{}, denied(role, action, resource.Kind)
}

// authorizeReview lets reviewers write and read reviews and authors read the
// reviews of their own submissions.
func (gate *Gate) authorizeReview(identity *sec.AuthClaims, action Action, resource Resource) (Decision, error) {
	role := identity.Role

	switch {
	case role == sec.RoleReviewer:
		if isRead(action) || action == ActionReview {
			return Decision{Scope: Scope{Statuses: workflow.Reviewable()}}, nil
		}
	case role.IsAuthor() && isRead(action):
		return Decision{Scope: Scope{OwnerID: identity.UserID()}}, nil
	}

	return Decision{}, denied(role, action, resource.Kind)
}

// # Helpers

func isRead(action Action) bool {
	return action == ActionList || action == ActionRead || action == ActionStats
}

func roleOf(identity *sec.AuthClaims) sec.Role {
	if identity == nil {
		return sec.RoleGuest
	}
	return identity.Role
}

// denied builds the 403 naming the attempted operation and the caller's role.
func denied(role sec.Role, action Action, kind Kind) *apperr.AppError {
	return apperr.InsufficientPermissions(fmt.Sprintf(
		"Insufficient permissions: %s on %s is not allowed, current role is %s", action, kind, role,
	))
}
