// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "slices"

// # User Roles

// UserRole represents the authorization level granted to a staff account.
type UserRole string

const (
	// Unrestricted system access, including user and API key management
	RoleAdmin UserRole = "admin"

	// Can create and remove cabins, bookings and settings
	RoleManager UserRole = "manager"

	// Default role; day-to-day booking and guest operations
	RoleStaff UserRole = "staff"

	// Read-only showcase account
	RoleDemo UserRole = "demo"
)

// # Role Sets

var (
	// AllRoles is every known role.
	AllRoles = []UserRole{RoleDemo, RoleStaff, RoleManager, RoleAdmin}

	// StaffAndAbove excludes the read-only demo role.
	StaffAndAbove = []UserRole{RoleStaff, RoleManager, RoleAdmin}

	// ManagersAndAdmins may create and delete core records.
	ManagersAndAdmins = []UserRole{RoleManager, RoleAdmin}

	// AdminsOnly is reserved for account and credential management.
	AdminsOnly = []UserRole{RoleAdmin}
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return slices.Contains(AllRoles, r)
}

// In reports whether r is a member of the allowed set.
func (r UserRole) In(allowed []UserRole) bool {
	return slices.Contains(allowed, r)
}

// Strings returns the role names of a set, for validation messages.
func Strings(roles []UserRole) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}
