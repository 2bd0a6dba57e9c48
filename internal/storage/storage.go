// Package storage defines the Storage interface — a contract that any
// student store must satisfy to work with this application — together
// with the errors every implementation reports.
//
// Handlers (HTTP layer) should not know or care which store they are
// talking to. Two implementations ship today:
//
//   - memory: an ordered slice guarded by a mutex (the default)
//   - sqlite: a private in-memory SQLite database
//
// Both are volatile: everything is lost when the process exits.
package storage

import "github.com/aanand-mishra/student-portal/internal/types"

// Storage is the store contract.
// Implementations must be safe for concurrent use: net/http runs every
// request on its own goroutine.
type Storage interface {
	// RegisterStudent validates and appends a new student, assigning the
	// next id and the registration timestamp. Returns the new id.
	//
	// Errors: *ValidationError (wraps ErrValidation) when a required
	// field is empty, ErrDuplicateEmail when the email is taken.
	// A failed call never changes the store.
	RegisterStudent(student types.Student) (int64, error)

	// GetStudents returns every student in insertion order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// GetStudentByID fetches a single student.
	// Returns ErrNotFound if no student has that id.
	GetStudentByID(id int64) (types.Student, error)

	// DeleteStudentByID removes a student permanently.
	// Returns ErrNotFound if no student has that id.
	DeleteStudentByID(id int64) error

	// GetStats counts students in total and per course.
	GetStats() (types.Stats, error)
}
