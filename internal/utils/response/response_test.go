package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	res := OK("Student registered successfully!")
	res.StudentID = 7
	require.NoError(t, WriteJSON(w, http.StatusOK, res))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Student registered successfully!","studentId":7}`, w.Body.String())
}

func TestFailOmitsOptionalFields(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusNotFound, Fail("Student not found")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Student not found"}`, w.Body.String())
}
