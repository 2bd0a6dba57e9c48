// Package memory provides the default storage.Storage implementation:
// an ordered slice of students held in process memory.
//
// All state lives inside a *Memory value. Nothing is global, so each test
// (or each server) gets its own isolated store from New().
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// Memory is the in-memory store.
//
// A single RWMutex guards both the slice and the id counter, so a
// register is atomic: the duplicate check, id assignment and append
// happen under one lock.
type Memory struct {
	mu       sync.RWMutex
	students []types.Student
	lastID   int64
	now      func() time.Time
}

// Option configures a Memory store.
type Option func(*Memory)

// WithClock overrides the time source used for RegisteredAt.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// New returns an empty store. Ids start at 1.
func New(opts ...Option) *Memory {
	m := &Memory{
		students: make([]types.Student, 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ storage.Storage = (*Memory)(nil)

// RegisterStudent validates student, rejects a taken email and appends
// it with the next id and the current time.
func (m *Memory) RegisterStudent(student types.Student) (int64, error) {
	if err := storage.ValidateStudent(student); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Exact, case-sensitive comparison.
	for _, s := range m.students {
		if s.Email == student.Email {
			return 0, fmt.Errorf("RegisterStudent: %q: %w", student.Email, storage.ErrDuplicateEmail)
		}
	}

	// The counter only moves forward, so ids of deleted students are
	// never handed out again.
	m.lastID++
	student.ID = m.lastID
	student.RegisteredAt = types.FormatTimestamp(m.now())

	m.students = append(m.students, student)
	return student.ID, nil
}

// GetStudents returns a copy of every student in insertion order.
func (m *Memory) GetStudents() ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Copy so callers can't reorder or mutate the store's backing array.
	out := make([]types.Student, len(m.students))
	copy(out, m.students)
	return out, nil
}

// GetStudentByID returns the student with id, or storage.ErrNotFound.
func (m *Memory) GetStudentByID(id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	return m.students[i], nil
}

// DeleteStudentByID removes the student with id, keeping the order of
// the rest. Returns storage.ErrNotFound if there is none.
func (m *Memory) DeleteStudentByID(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("DeleteStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	// Shift the tail down to keep insertion order, then clear the stale
	// last element so it doesn't linger in the backing array.
	copy(m.students[i:], m.students[i+1:])
	m.students[len(m.students)-1] = types.Student{}
	m.students = m.students[:len(m.students)-1]
	return nil
}

// GetStats counts students in total and per course in one pass.
func (m *Memory) GetStats() (types.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.Stats{
		TotalStudents: len(m.students),
		Courses:       make(map[string]int),
	}
	for _, s := range m.students {
		stats.Courses[s.Course]++
	}
	return stats, nil
}

// indexOf must be called with mu held.
func (m *Memory) indexOf(id int64) int {
	for i, s := range m.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}
