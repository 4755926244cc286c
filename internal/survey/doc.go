// Package survey holds the storage-independent parts of the dynamic survey
// workflow: turning field definitions into a form description, coercing raw
// client input into typed answers, required-field validation and the calendar
// day window used by the daily completion check.
package survey
