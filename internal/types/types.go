// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, views and utils can all import types without
// depending on each other.
package types

import "time"

// TimestampLayout is the ISO-8601 layout used for RegisteredAt.
// Always rendered in UTC with millisecond precision, e.g.
// "2026-10-18T09:30:00.000Z".
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//     The browser form posts camelCase keys, so the tags match them.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the string must be non-empty. Nothing
//     else is checked: no email format, no length limits.
//
// ID and RegisteredAt are assigned by the store; whatever the client
// sends for them is ignored.
type Student struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"             validate:"required"`
	LastName     string `json:"lastName"              validate:"required"`
	Email        string `json:"email"                 validate:"required"`
	Phone        string `json:"phone,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Course       string `json:"course"                validate:"required"`
	Address      string `json:"address,omitempty"`
	RegisteredAt string `json:"registeredAt"`
}

// FullName joins first and last name for display.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Stats is the aggregate returned by GET /api/stats.
//
// Courses maps a course name to the number of students enrolled in it.
// It is never nil, so an empty store encodes as "courses": {}.
type Stats struct {
	TotalStudents int            `json:"totalStudents"`
	Courses       map[string]int `json:"courses"`
}

// FormatTimestamp renders t the way RegisteredAt is stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
