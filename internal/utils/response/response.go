// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Mutating endpoints always answer with the same envelope:
//
//	{ "success": true,  "message": "Student registered successfully!", "studentId": 1 }
//	{ "success": false, "message": "Email already registered" }
//
// Read-only API endpoints (/api/students, /api/stats) return their data
// as-is, without an envelope.
package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope for mutating endpoints.
//
// StudentID is only set by a successful registration; Errors only by a
// validation failure. Both are omitted from the JSON otherwise.
type Response struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	StudentID int64    `json:"studentId,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; all we can do is record it.
		slog.Error("failed to encode response", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// OK builds a success envelope.
func OK(message string) Response {
	return Response{Success: true, Message: message}
}

// Fail builds a failure envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// ValidationError builds a failure envelope listing every field that
// broke a rule, in a human-readable sentence per field:
//
//	{ "success": false, "message": "Please fill all required fields",
//	  "errors": ["field firstName is required", "field course is required"] }
func ValidationError(message string, errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Success: false,
		Message: message,
		Errors:  errMessages,
	}
}
