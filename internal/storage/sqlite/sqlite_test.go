package sqlite

import (
	"testing"
	"time"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) *SQLite {
	t.Helper()

	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return newTestStore(t)
	})
}

func TestEachStoreIsIsolated(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)

	_, err := a.RegisterStudent(storagetest.Student("Ada", "ada@x.com", "CS"))
	require.NoError(t, err)

	list, err := b.GetStudents()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegisteredAtUsesClock(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 123_000_000, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return fixed }))

	id, err := s.RegisterStudent(storagetest.Student("Ada", "ada@x.com", "CS"))
	require.NoError(t, err)

	got, err := s.GetStudentByID(id)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18T09:30:00.123Z", got.RegisteredAt)
}
