// Package storagetest is a conformance suite shared by every
// storage.Storage implementation. Each backend's tests call Run with a
// constructor that returns a fresh, empty store.
package storagetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory builds an empty store for one subtest.
type Factory func(t *testing.T) storage.Storage

// Student returns a valid record with the given email and course.
func Student(first, email, course string) types.Student {
	return types.Student{
		FirstName: first,
		LastName:  "Test",
		Email:     email,
		Course:    course,
	}
}

// Run executes the whole suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("RegisterAssignsIncreasingIDs", func(t *testing.T) {
		s := newStore(t)

		var prev int64
		for i := 0; i < 5; i++ {
			id, err := s.RegisterStudent(Student(fmt.Sprint("s", i), fmt.Sprintf("s%d@x.com", i), "CS"))
			require.NoError(t, err)
			assert.Greater(t, id, prev)
			prev = id
		}

		list, err := s.GetStudents()
		require.NoError(t, err)
		require.Len(t, list, 5)
		for i, st := range list {
			assert.Equal(t, fmt.Sprintf("s%d@x.com", i), st.Email, "insertion order")
			assert.NotEmpty(t, st.RegisteredAt)
		}
	})

	t.Run("RegisterKeepsOptionalFields", func(t *testing.T) {
		s := newStore(t)

		in := types.Student{
			FirstName:   "Grace",
			LastName:    "Hopper",
			Email:       "grace@navy.mil",
			Phone:       "555-0100",
			DateOfBirth: "1906-12-09",
			Gender:      "female",
			Course:      "Math",
			Address:     "Arlington",
		}
		id, err := s.RegisterStudent(in)
		require.NoError(t, err)

		got, err := s.GetStudentByID(id)
		require.NoError(t, err)

		in.ID = id
		in.RegisteredAt = got.RegisteredAt
		assert.Equal(t, in, got)
	})

	t.Run("RegisterIgnoresClientID", func(t *testing.T) {
		s := newStore(t)

		in := Student("Ada", "ada@x.com", "CS")
		in.ID = 99
		in.RegisteredAt = "1815-12-10T00:00:00.000Z"

		id, err := s.RegisterStudent(in)
		require.NoError(t, err)
		assert.EqualValues(t, 1, id)

		got, err := s.GetStudentByID(id)
		require.NoError(t, err)
		assert.NotEqual(t, "1815-12-10T00:00:00.000Z", got.RegisteredAt)
	})

	t.Run("DuplicateEmailDoesNotMutate", func(t *testing.T) {
		s := newStore(t)

		_, err := s.RegisterStudent(Student("Ada", "ada@x.com", "CS"))
		require.NoError(t, err)

		_, err = s.RegisterStudent(Student("Other", "ada@x.com", "Math"))
		require.ErrorIs(t, err, storage.ErrDuplicateEmail)

		list, err := s.GetStudents()
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, "Ada", list[0].FirstName)
	})

	t.Run("EmailComparisonIsExact", func(t *testing.T) {
		s := newStore(t)

		_, err := s.RegisterStudent(Student("Ada", "ada@x.com", "CS"))
		require.NoError(t, err)

		_, err = s.RegisterStudent(Student("Ada", "ADA@x.com", "CS"))
		assert.NoError(t, err, "different case is a different email")

		_, err = s.RegisterStudent(Student("Ada", " ada@x.com", "CS"))
		assert.NoError(t, err, "whitespace is not trimmed")
	})

	t.Run("MissingRequiredFieldDoesNotMutate", func(t *testing.T) {
		cases := map[string]func(*types.Student){
			"firstName": func(s *types.Student) { s.FirstName = "" },
			"lastName":  func(s *types.Student) { s.LastName = "" },
			"email":     func(s *types.Student) { s.Email = "" },
			"course":    func(s *types.Student) { s.Course = "" },
		}
		for field, blank := range cases {
			t.Run(field, func(t *testing.T) {
				s := newStore(t)

				in := Student("Ada", "ada@x.com", "CS")
				blank(&in)

				_, err := s.RegisterStudent(in)
				require.ErrorIs(t, err, storage.ErrValidation)

				var verr *storage.ValidationError
				require.ErrorAs(t, err, &verr)
				require.Len(t, verr.Fields, 1)
				assert.Equal(t, field, verr.Fields[0].Field())

				list, err := s.GetStudents()
				require.NoError(t, err)
				assert.Empty(t, list)
			})
		}
	})

	t.Run("FailedRegisterDoesNotConsumeID", func(t *testing.T) {
		s := newStore(t)

		_, err := s.RegisterStudent(types.Student{})
		require.Error(t, err)

		id, err := s.RegisterStudent(Student("Ada", "ada@x.com", "CS"))
		require.NoError(t, err)
		assert.EqualValues(t, 1, id)
	})

	t.Run("GetUnknownID", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetStudentByID(42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteRemovesExactlyOne", func(t *testing.T) {
		s := newStore(t)

		var ids []int64
		for i := 0; i < 3; i++ {
			id, err := s.RegisterStudent(Student(fmt.Sprint("s", i), fmt.Sprintf("s%d@x.com", i), "CS"))
			require.NoError(t, err)
			ids = append(ids, id)
		}
		before, err := s.GetStudents()
		require.NoError(t, err)

		require.NoError(t, s.DeleteStudentByID(ids[1]))

		after, err := s.GetStudents()
		require.NoError(t, err)
		require.Len(t, after, len(before)-1)
		assert.Equal(t, before[0], after[0])
		assert.Equal(t, before[2], after[1])

		_, err = s.GetStudentByID(ids[1])
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteUnknownOrDeletedID", func(t *testing.T) {
		s := newStore(t)

		assert.ErrorIs(t, s.DeleteStudentByID(7), storage.ErrNotFound)

		id, err := s.RegisterStudent(Student("Ada", "ada@x.com", "CS"))
		require.NoError(t, err)
		require.NoError(t, s.DeleteStudentByID(id))
		assert.ErrorIs(t, s.DeleteStudentByID(id), storage.ErrNotFound)
	})

	t.Run("IDsAreNeverReused", func(t *testing.T) {
		s := newStore(t)

		first, err := s.RegisterStudent(Student("Ada", "ada@x.com", "CS"))
		require.NoError(t, err)
		require.NoError(t, s.DeleteStudentByID(first))

		second, err := s.RegisterStudent(Student("Ada", "ada@x.com", "CS"))
		require.NoError(t, err, "email is free again after delete")
		assert.Greater(t, second, first)
	})

	t.Run("StatsEmptyStore", func(t *testing.T) {
		s := newStore(t)

		stats, err := s.GetStats()
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalStudents)
		assert.NotNil(t, stats.Courses)
		assert.Empty(t, stats.Courses)
	})

	t.Run("StatsCountsCourses", func(t *testing.T) {
		s := newStore(t)

		for i, course := range []string{"CS", "Math", "CS"} {
			_, err := s.RegisterStudent(Student(fmt.Sprint("s", i), fmt.Sprintf("s%d@x.com", i), course))
			require.NoError(t, err)
		}

		stats, err := s.GetStats()
		require.NoError(t, err)
		assert.Equal(t, types.Stats{
			TotalStudents: 3,
			Courses:       map[string]int{"CS": 2, "Math": 1},
		}, stats)

		list, err := s.GetStudents()
		require.NoError(t, err)
		sum := 0
		for _, n := range stats.Courses {
			sum += n
		}
		assert.Equal(t, len(list), stats.TotalStudents)
		assert.Equal(t, len(list), sum)
	})

	t.Run("AdaLovelaceScenario", func(t *testing.T) {
		s := newStore(t)

		ada := types.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Course: "CS"}

		id, err := s.RegisterStudent(ada)
		require.NoError(t, err)
		assert.EqualValues(t, 1, id)

		_, err = s.RegisterStudent(ada)
		require.ErrorIs(t, err, storage.ErrDuplicateEmail)
		list, err := s.GetStudents()
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, s.DeleteStudentByID(1))
		assert.ErrorIs(t, s.DeleteStudentByID(1), storage.ErrNotFound)

		stats, err := s.GetStats()
		require.NoError(t, err)
		assert.Equal(t, types.Stats{TotalStudents: 0, Courses: map[string]int{}}, stats)
	})

	t.Run("ConcurrentRegister", func(t *testing.T) {
		s := newStore(t)

		const n = 50
		var wg sync.WaitGroup
		ids := make([]int64, n)
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = s.RegisterStudent(Student("s", fmt.Sprintf("s%d@x.com", i), "CS"))
			}(i)
		}
		wg.Wait()

		seen := make(map[int64]bool, n)
		for i := range ids {
			require.NoError(t, errs[i])
			assert.False(t, seen[ids[i]], "id %d issued twice", ids[i])
			seen[ids[i]] = true
		}

		stats, err := s.GetStats()
		require.NoError(t, err)
		assert.Equal(t, n, stats.TotalStudents)
	})
}
