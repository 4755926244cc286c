package models

import "time"

// Governorate is the top-level organisational unit.
type Governorate struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GovernorateSummary adds dependant counts for admin listings.
type GovernorateSummary struct {
	Governorate
	RegionCount int `db:"region_count" json:"region_count"`
}

// HealthAdministration is a region nested under a governorate; employees are assigned to one.
type HealthAdministration struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	GovernorateID   string    `db:"governorate_id" json:"governorate_id"`
	GovernorateName string    `db:"governorate_name" json:"governorate_name,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
