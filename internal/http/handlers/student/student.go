// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject dependencies (the store, the view renderer) each handler is
// built by a factory that receives them once at startup and returns the
// function called on every request:
//
//	router.HandleFunc("POST /register", student.New(store))
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-portal/internal/http/views"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// Messages sent back in the JSON envelope.
const (
	MsgRegistered      = "Student registered successfully!"
	MsgRequiredFields  = "Please fill all required fields"
	MsgDuplicateEmail  = "Email already registered"
	MsgDeleted         = "Student deleted successfully"
	MsgNotFound        = "Student not found"
	MsgInternalFailure = "Something went wrong. Please try again."
)

// maxBodyBytes caps registration bodies; a student record is tiny.
const maxBodyBytes = 1 << 20

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /register
// Registers a new student from a JSON (or form-encoded) request body.
//
// Request body (JSON):
//
//	{ "firstName": "Ada", "lastName": "Lovelace", "email": "ada@x.com", "course": "CS" }
//
// Success response (200 OK):
//
//	{ "success": true, "message": "Student registered successfully!", "studentId": 1 }
//
// Error responses (400 Bad Request):
//
//	{ "success": false, "message": "Please fill all required fields", "errors": [...] }
//	{ "success": false, "message": "Email already registered" }
//
// A body that can't be decoded is treated like an empty one: it fails
// the required-field check rather than being reported separately.
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("registering a student")

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		student := decodeStudent(r)

		id, err := store.RegisterStudent(student)
		if err != nil {
			var verr *storage.ValidationError
			switch {
			case errors.As(err, &verr):
				slog.Info("registration rejected", slog.String("reason", err.Error()))
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError(MsgRequiredFields, verr.Fields))
			case errors.Is(err, storage.ErrDuplicateEmail):
				slog.Info("registration rejected", slog.String("reason", err.Error()))
				response.WriteJSON(w, http.StatusBadRequest, response.Fail(MsgDuplicateEmail))
			default:
				slog.Error("error registering student", slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.Fail(MsgInternalFailure))
			}
			return
		}

		slog.Info("student registered", slog.Int64("id", id))

		res := response.OK(MsgRegistered)
		res.StudentID = id
		response.WriteJSON(w, http.StatusOK, res)
	}
}

// decodeStudent reads the fields from the body. Form posts (the page
// without JavaScript) and JSON posts (the page with it) are both
// accepted. Any decode failure yields a zero Student.
func decodeStudent(r *http.Request) types.Student {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
				slog.Debug("unreadable form body", slog.String("error", err.Error()))
				return types.Student{}
			}
		} else if err := r.ParseForm(); err != nil {
			slog.Debug("unreadable form body", slog.String("error", err.Error()))
			return types.Student{}
		}
		return types.Student{
			FirstName:   r.PostFormValue("firstName"),
			LastName:    r.PostFormValue("lastName"),
			Email:       r.PostFormValue("email"),
			Phone:       r.PostFormValue("phone"),
			DateOfBirth: r.PostFormValue("dateOfBirth"),
			Gender:      r.PostFormValue("gender"),
			Course:      r.PostFormValue("course"),
			Address:     r.PostFormValue("address"),
		}
	}

	// Everything else is attempted as JSON.
	student, err := decodeJSON(r.Body)
	if err != nil {
		slog.Debug("unreadable json body", slog.String("error", err.Error()))
		return types.Student{}
	}
	return student
}

// decodeJSON reads exactly one JSON object and picks the known keys by
// exact name. encoding/json would otherwise match "FIRSTNAME" to
// firstName and ignore whatever follows the first value.
func decodeJSON(body io.Reader) (types.Student, error) {
	dec := json.NewDecoder(body)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return types.Student{}, err
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return types.Student{}, errors.New("unexpected data after json object")
	}

	var student types.Student
	fields := map[string]*string{
		"firstName":   &student.FirstName,
		"lastName":    &student.LastName,
		"email":       &student.Email,
		"phone":       &student.Phone,
		"dateOfBirth": &student.DateOfBirth,
		"gender":      &student.Gender,
		"course":      &student.Course,
		"address":     &student.Address,
	}
	for key, dst := range fields {
		value, ok := raw[key]
		if !ok {
			continue
		}
		// null leaves the field empty; any non-string is malformed.
		if err := json.Unmarshal(value, dst); err != nil {
			return types.Student{}, fmt.Errorf("field %s: %w", key, err)
		}
	}
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /students
// Renders the table of every student, in registration order.
// ─────────────────────────────────────────────────────────────────────────────
func List(store storage.Storage, renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		renderer.Render(w, http.StatusOK, views.Students, views.Data{
			Title:    "All Students",
			Students: students,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Detail handles GET /student/{id}
// Renders one student, or the 404 page when the id is unknown.
// A non-numeric id can't match anyone, so it is simply "not found".
// ─────────────────────────────────────────────────────────────────────────────
func Detail(store storage.Storage, renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		student, err := lookup(store, id)
		if errors.Is(err, storage.ErrNotFound) {
			renderer.Render(w, http.StatusNotFound, views.NotFound, views.Data{Title: "Student Not Found"})
			return
		}
		if err != nil {
			slog.Error("error getting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		renderer.Render(w, http.StatusOK, views.StudentDetail, views.Data{
			Title:   "Student Details",
			Student: &student,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /student/{id}
// Permanently removes a student.
//
// Success response (200 OK):
//
//	{ "success": true, "message": "Student deleted successfully" }
//
// Error response (404 Not Found) — unknown or non-numeric id:
//
//	{ "success": false, "message": "Student not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		err := storage.ErrNotFound
		if intID, perr := parseID(id); perr == nil {
			err = store.DeleteStudentByID(intID)
		}

		switch {
		case err == nil:
			slog.Info("student deleted", slog.String("id", id))
			response.WriteJSON(w, http.StatusOK, response.OK(MsgDeleted))
		case errors.Is(err, storage.ErrNotFound):
			response.WriteJSON(w, http.StatusNotFound, response.Fail(MsgNotFound))
		default:
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(MsgInternalFailure))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of all students. Returns [] (not null) when empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(MsgInternalFailure))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Stats handles GET /api/stats
//
//	{ "totalStudents": 3, "courses": { "CS": 2, "Math": 1 } }
//
// ─────────────────────────────────────────────────────────────────────────────
func Stats(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GetStats()
		if err != nil {
			slog.Error("error getting stats", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Fail(MsgInternalFailure))
			return
		}

		response.WriteJSON(w, http.StatusOK, stats)
	}
}

// lookup parses id and fetches the student. Unparsable ids report
// storage.ErrNotFound, same as ids nobody has.
func lookup(store storage.Storage, id string) (types.Student, error) {
	intID, err := parseID(id)
	if err != nil {
		return types.Student{}, storage.ErrNotFound
	}
	return store.GetStudentByID(intID)
}

func parseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
