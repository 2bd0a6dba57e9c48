package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-portal/internal/http/views"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/storage/memory"
	"github.com/aanand-mishra/student-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	new  func(t *testing.T) storage.Storage
}

var backends = []backend{
	{name: "memory", new: func(t *testing.T) storage.Storage { return memory.New() }},
	{name: "sqlite", new: func(t *testing.T) storage.Storage {
		s, err := sqlite.New()
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	}},
}

func newTestRouter(t *testing.T, store storage.Storage) http.Handler {
	t.Helper()

	renderer, err := views.New()
	require.NoError(t, err)
	return New(store, renderer)
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func registerJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	return do(t, h, http.MethodPost, "/register", "application/json", body)
}

func TestPages(t *testing.T) {
	h := newTestRouter(t, memory.New())

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "landing", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: "Student Registration Portal"},
		{name: "register form", method: http.MethodGet, target: "/register", wantStatus: http.StatusOK, wantBody: "registrationForm"},
		{name: "students empty", method: http.MethodGet, target: "/students", wantStatus: http.StatusOK, wantBody: "No students registered yet"},
		{name: "unknown student", method: http.MethodGet, target: "/student/1", wantStatus: http.StatusNotFound, wantBody: "Student Not Found"},
		{name: "non-numeric id", method: http.MethodGet, target: "/student/abc", wantStatus: http.StatusNotFound, wantBody: "Student Not Found"},
		{name: "unknown path", method: http.MethodGet, target: "/nope", wantStatus: http.StatusNotFound, wantBody: "Page Not Found"},
		{name: "unknown nested path", method: http.MethodGet, target: "/api/nope", wantStatus: http.StatusNotFound, wantBody: "Page Not Found"},
		{name: "wrong method", method: http.MethodPut, target: "/student/1", wantStatus: http.StatusNotFound, wantBody: "Page Not Found"},
		{name: "script", method: http.MethodGet, target: "/js/main.js", wantStatus: http.StatusOK, wantBody: "setupRegistrationForm"},
		{name: "stylesheet", method: http.MethodGet, target: "/css/style.css", wantStatus: http.StatusOK, wantBody: ".stat-card"},
		{name: "css directory", method: http.MethodGet, target: "/css/", wantStatus: http.StatusNotFound, wantBody: "Page Not Found"},
		{name: "js directory", method: http.MethodGet, target: "/js/", wantStatus: http.StatusNotFound, wantBody: "Page Not Found"},
		{name: "missing asset", method: http.MethodGet, target: "/js/nope.js", wantStatus: http.StatusNotFound, wantBody: "Page Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, "", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRegister(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			h := newTestRouter(t, b.new(t))

			w := registerJSON(t, h, `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com","course":"CS","phone":"555"}`)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, response.Response{
				Success:   true,
				Message:   "Student registered successfully!",
				StudentID: 1,
			}, decode[response.Response](t, w))

			w = registerJSON(t, h, `{"firstName":"Ada","lastName":"L","email":"ada@x.com","course":"Math"}`)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, response.Fail("Email already registered"), decode[response.Response](t, w))

			list := decode[[]types.Student](t, do(t, h, http.MethodGet, "/api/students", "", ""))
			require.Len(t, list, 1)
			assert.Equal(t, "555", list[0].Phone)
			assert.NotEmpty(t, list[0].RegisteredAt)
		})
	}
}

func TestRegisterRejectsIncompleteBodies(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "missing course", contentType: "application/json", body: `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`},
		{name: "blank email", contentType: "application/json", body: `{"firstName":"Ada","lastName":"Lovelace","email":"","course":"CS"}`},
		{name: "empty body", contentType: "application/json", body: ""},
		{name: "malformed json", contentType: "application/json", body: `{"firstName":`},
		{name: "wrong types", contentType: "application/json", body: `{"firstName":1,"lastName":"L","email":"e","course":"c"}`},
		{name: "json array", contentType: "application/json", body: `[]`},
		{name: "no content type", contentType: "", body: "garbage"},
		{name: "form missing fields", contentType: "application/x-www-form-urlencoded", body: "firstName=Ada"},
		{name: "keys in wrong case", contentType: "application/json", body: `{"FIRSTNAME":"Ada","LASTNAME":"L","EMAIL":"a@x.com","COURSE":"CS"}`},
		{name: "trailing garbage", contentType: "application/json", body: `{"firstName":"Ada","lastName":"L","email":"a@x.com","course":"CS"} trailing-garbage`},
		{name: "two objects", contentType: "application/json", body: `{"firstName":"Ada","lastName":"L","email":"a@x.com","course":"CS"}{}`},
		{name: "oversized body", contentType: "application/json", body: `{"firstName":"Ada","lastName":"L","email":"a@x.com","course":"CS","address":"` + strings.Repeat("a", 2<<20) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			h := newTestRouter(t, store)

			w := do(t, h, http.MethodPost, "/register", tt.contentType, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			res := decode[response.Response](t, w)
			assert.False(t, res.Success)
			assert.Equal(t, "Please fill all required fields", res.Message)
			assert.NotEmpty(t, res.Errors)

			list, err := store.GetStudents()
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestRegisterValidationListsFields(t *testing.T) {
	h := newTestRouter(t, memory.New())

	w := registerJSON(t, h, `{"firstName":"Ada","email":"ada@x.com"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	res := decode[response.Response](t, w)
	assert.Equal(t, []string{"field lastName is required", "field course is required"}, res.Errors)
}

func TestRegisterForm(t *testing.T) {
	store := memory.New()
	h := newTestRouter(t, store)

	form := url.Values{
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"email":     {"grace@navy.mil"},
		"course":    {"Math"},
		"address":   {"Arlington"},
	}
	w := do(t, h, http.MethodPost, "/register", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := store.GetStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FirstName)
	assert.Equal(t, "Arlington", got.Address)
}

func TestRegisterMultipartForm(t *testing.T) {
	store := memory.New()
	h := newTestRouter(t, store)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "grace@navy.mil",
		"course":    "Math",
		"phone":     "555-0100",
	} {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())

	w := do(t, h, http.MethodPost, "/register", mw.FormDataContentType(), body.String())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode[response.Response](t, w).StudentID)

	got, err := store.GetStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FirstName)
	assert.Equal(t, "555-0100", got.Phone)
}

func TestRegisterJSONAcceptsNullOptionalFields(t *testing.T) {
	store := memory.New()
	h := newTestRouter(t, store)

	w := registerJSON(t, h, `{"firstName":"Ada","lastName":"L","email":"a@x.com","course":"CS","phone":null}
`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := store.GetStudentByID(1)
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
}

func TestStudentPages(t *testing.T) {
	store := memory.New()
	h := newTestRouter(t, store)

	_, err := store.RegisterStudent(types.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Course: "CS"})
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/students", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	w = do(t, h, http.MethodGet, "/student/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@x.com")
}

func TestDelete(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			h := newTestRouter(t, b.new(t))

			require.Equal(t, http.StatusOK, registerJSON(t, h, `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com","course":"CS"}`).Code)

			w := do(t, h, http.MethodDelete, "/student/1", "", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, response.OK("Student deleted successfully"), decode[response.Response](t, w))

			for _, target := range []string{"/student/1", "/student/2", "/student/abc", "/student/-1"} {
				w = do(t, h, http.MethodDelete, target, "", "")
				assert.Equal(t, http.StatusNotFound, w.Code, target)
				assert.Equal(t, response.Fail("Student not found"), decode[response.Response](t, w))
			}
		})
	}
}

func TestAPIListEmpty(t *testing.T) {
	h := newTestRouter(t, memory.New())

	w := do(t, h, http.MethodGet, "/api/students", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAPIStats(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			h := newTestRouter(t, b.new(t))

			w := do(t, h, http.MethodGet, "/api/stats", "", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"totalStudents":0,"courses":{}}`, w.Body.String())

			for _, body := range []string{
				`{"firstName":"A","lastName":"A","email":"a@x.com","course":"CS"}`,
				`{"firstName":"B","lastName":"B","email":"b@x.com","course":"CS"}`,
				`{"firstName":"C","lastName":"C","email":"c@x.com","course":"Math"}`,
			} {
				require.Equal(t, http.StatusOK, registerJSON(t, h, body).Code)
			}

			w = do(t, h, http.MethodGet, "/api/stats", "", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"totalStudents":3,"courses":{"CS":2,"Math":1}}`, w.Body.String())
		})
	}
}

func TestAdaLovelaceScenario(t *testing.T) {
	h := newTestRouter(t, memory.New())
	ada := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com","course":"CS"}`

	w := registerJSON(t, h, ada)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[response.Response](t, w).StudentID)

	w = registerJSON(t, h, ada)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode[[]types.Student](t, do(t, h, http.MethodGet, "/api/students", "", "")), 1)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/student/1", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/student/1", "", "").Code)

	w = do(t, h, http.MethodGet, "/api/stats", "", "")
	assert.JSONEq(t, `{"totalStudents":0,"courses":{}}`, w.Body.String())
}
