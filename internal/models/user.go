package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin            UserRole = "admin"
	RoleGovernorateAdmin UserRole = "governorate_admin"
	RoleEmployee         UserRole = "employee"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleGovernorateAdmin, RoleEmployee:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID             string     `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Role           UserRole   `db:"role" json:"role"`
	AssignedRegion *string    `db:"assigned_region" json:"assigned_region,omitempty"`
	LastLogin      *time.Time `db:"last_login" json:"last_login,omitempty"`
	LastActivity   *time.Time `db:"last_activity" json:"last_activity,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// UserDetail enriches a user with the names of its region and governorate.
type UserDetail struct {
	User
	RegionName      *string `db:"region_name" json:"region_name,omitempty"`
	GovernorateID   *string `db:"governorate_id" json:"governorate_id,omitempty"`
	GovernorateName *string `db:"governorate_name" json:"governorate_name,omitempty"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role          *UserRole
	GovernorateID string
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
