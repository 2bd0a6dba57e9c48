package storage

import (
	"errors"
	"testing"

	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStudent(t *testing.T) {
	valid := types.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Course: "CS"}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateStudent(valid))
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		s := valid
		s.Phone, s.Address, s.Gender, s.DateOfBirth = "", "", "", ""
		assert.NoError(t, ValidateStudent(s))
	})

	t.Run("no format checks", func(t *testing.T) {
		s := valid
		s.Email = "not an email"
		assert.NoError(t, ValidateStudent(s))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := ValidateStudent(types.Student{Email: "ada@x.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		var names []string
		for _, f := range verr.Fields {
			names = append(names, f.Field())
		}
		assert.Equal(t, []string{"firstName", "lastName", "course"}, names)
		assert.Equal(t, "please fill all required fields: firstName, lastName, course", err.Error())
	})
}
