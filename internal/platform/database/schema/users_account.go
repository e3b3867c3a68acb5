// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table          string
	ID             string
	Email          string
	Password       string
	Name           string
	Role           string
	IsActive       string
	IdentityNumber string
	Department     string
	Institution    string
	ProgramID      string
	LastLoginAt    string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:          "users.account",
	ID:             "id",
	Email:          "email",
	Password:       "passwordhash",
	Name:           "name",
	Role:           "role",
	IsActive:       "isactive",
	IdentityNumber: "identitynumber",
	Department:     "department",
	Institution:    "institution",
	ProgramID:      "programid",
	LastLoginAt:    "lastloginat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}

// Columns returns the projection every identity read scans, in scan order.
func (t UsersAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.Name, t.Role, t.IsActive,
		t.IdentityNumber, t.Department, t.Institution, t.ProgramID,
		t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
