// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The database is always a private in-memory one (":memory:"), so it is
// exactly as volatile as the slice store — it exists for deployments that
// want SQL semantics (UNIQUE, AUTOINCREMENT) doing the bookkeeping.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"

	"github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a database that lives only as long as its connection.
const MemoryDSN = ":memory:"

// SQLite is the SQL implementation of storage.Storage.
//
// The pool is pinned to ONE connection: every new connection to
// ":memory:" would see its own empty database. A single connection also
// serialises all statements, which is the store's locking model.
type SQLite struct {
	Db  *sql.DB
	now func() time.Time
}

// Option configures a SQLite store.
type Option func(*SQLite)

// WithClock overrides the time source used for RegisteredAt.
func WithClock(now func() time.Time) Option {
	return func(s *SQLite) { s.now = now }
}

var _ storage.Storage = (*SQLite)(nil)

// New opens a fresh in-memory database, creates the students table and
// returns a ready-to-use *SQLite.
func New(opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite3", MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Schema:
	//   id            — AUTOINCREMENT never reuses ids of deleted rows
	//   email         — UNIQUE; TEXT '=' is case-sensitive (BINARY)
	//   optional cols — empty string when the form left them blank
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			phone         TEXT NOT NULL DEFAULT '',
			date_of_birth TEXT NOT NULL DEFAULT '',
			gender        TEXT NOT NULL DEFAULT '',
			course        TEXT NOT NULL,
			address       TEXT NOT NULL DEFAULT '',
			registered_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	s := &SQLite{Db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the connection, and with it the whole database.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

const selectColumns = `id, first_name, last_name, email, phone, date_of_birth,
	gender, course, address, registered_at`

// RegisterStudent checks for a duplicate email and inserts inside one
// transaction. The UNIQUE constraint backs up the explicit check.
func (s *SQLite) RegisterStudent(student types.Student) (int64, error) {
	if err := storage.ValidateStudent(student); err != nil {
		return 0, err
	}

	tx, err := s.Db.Begin()
	if err != nil {
		return 0, fmt.Errorf("RegisterStudent: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	var taken int
	err = tx.QueryRow("SELECT COUNT(1) FROM students WHERE email = ?", student.Email).Scan(&taken)
	if err != nil {
		return 0, fmt.Errorf("RegisterStudent: check email: %w", err)
	}
	if taken > 0 {
		return 0, fmt.Errorf("RegisterStudent: %q: %w", student.Email, storage.ErrDuplicateEmail)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO students (first_name, last_name, email, phone, date_of_birth,
			gender, course, address, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("RegisterStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.DateOfBirth,
		student.Gender,
		student.Course,
		student.Address,
		types.FormatTimestamp(s.now()),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, fmt.Errorf("RegisterStudent: %q: %w", student.Email, storage.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("RegisterStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("RegisterStudent: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("RegisterStudent: commit: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches one row by primary key.
// Returns storage.ErrNotFound when no row matches.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + selectColumns + " FROM students WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRow(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns rows ordered by id, which is insertion order
// because ids only increase.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + selectColumns + " FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// DeleteStudentByID removes a row by primary key. Zero affected rows
// means the id was unknown: storage.ErrNotFound.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	return nil
}

// GetStats groups rows by course; the total is the sum of the groups.
func (s *SQLite) GetStats() (types.Stats, error) {
	rows, err := s.Db.Query("SELECT course, COUNT(1) FROM students GROUP BY course")
	if err != nil {
		return types.Stats{}, fmt.Errorf("GetStats: query: %w", err)
	}
	defer rows.Close()

	stats := types.Stats{Courses: make(map[string]int)}
	for rows.Next() {
		var (
			course string
			count  int
		)
		if err := rows.Scan(&course, &count); err != nil {
			return types.Stats{}, fmt.Errorf("GetStats: scan row: %w", err)
		}
		stats.Courses[course] = count
		stats.TotalStudents += count
	}

	if err := rows.Err(); err != nil {
		return types.Stats{}, fmt.Errorf("GetStats: rows iteration: %w", err)
	}

	return stats, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (types.Student, error) {
	var student types.Student
	err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.DateOfBirth,
		&student.Gender,
		&student.Course,
		&student.Address,
		&student.RegisteredAt,
	)
	return student, err
}
