// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"
)

// # User Roles

// Role is the closed set of authorization roles an identity can hold.
//
// Exactly one canonical value exists per concept. Localized spellings found in
// older records and tokens are translated by [ParseRole] at the JSON and
// database boundary, so the policy gate only ever sees canonical values.
type Role string

const (
	// Unrestricted system access, including admin-role management.
	RoleSuperAdmin Role = "super_admin"

	// Research institute (LPPM) administrator.
	RoleLPPMAdmin Role = "lppm_admin"

	// Faculty or department administrator.
	RoleAdmin Role = "admin"

	// Reviews submitted proposals and community-service programs.
	RoleReviewer Role = "reviewer"

	// Authors own proposals and community-service programs.
	RoleLecturer Role = "lecturer"

	// Student authors, scoped to their own submissions.
	RoleStudent Role = "student"

	// Read-nothing placeholder for unprivileged identities.
	RoleGuest Role = "guest"
)

// legacyRoleAliases maps localized role names onto canonical roles.
var legacyRoleAliases = map[string]Role{
	"dosen":     RoleLecturer,
	"mahasiswa": RoleStudent,
}

// Roles lists every canonical role, highest privilege first.
var Roles = []Role{
	RoleSuperAdmin,
	RoleLPPMAdmin,
	RoleAdmin,
	RoleReviewer,
	RoleLecturer,
	RoleStudent,
	RoleGuest,
}

// ParseRole converts a raw role string into a canonical [Role].
//
// Matching is case-insensitive and accepts the legacy aliases "dosen" and
// "mahasiswa". Anything outside the enumeration is an error.
func ParseRole(raw string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	if alias, ok := legacyRoleAliases[normalized]; ok {
		return alias, nil
	}

	role := Role(normalized)
	if !role.IsValid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}

	return role, nil
}

// IsValid reports whether r is a canonical role.
func (r Role) IsValid() bool {
	return r.level() > 0 || r == RoleGuest
}

// IsElevated reports whether r is exempt from ownership scoping.
func (r Role) IsElevated() bool {
	switch r {
	case RoleSuperAdmin, RoleLPPMAdmin, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAuthor reports whether r may own proposals and community-service programs.
func (r Role) IsAuthor() bool {
	return r == RoleLecturer || r == RoleStudent
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// UnmarshalText canonicalizes roles read from JSON (request bodies and token payloads).
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale leaves room for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 70
	case RoleLPPMAdmin:
		return 60
	case RoleAdmin:
		return 50
	case RoleReviewer:
		return 30
	case RoleLecturer:
		return 20
	case RoleStudent:
		return 10
	default:
		return 0
	}
}
