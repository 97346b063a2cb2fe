// Package respond owns the single wire envelope used by every handler and
// middleware, so the response contract stays uniform across the API.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the standard API response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a success response.
func OK(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a success response for collection endpoints, including a total.
func List(w http.ResponseWriter, message string, data any, total int) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Total: &total})
}

// Fail writes a client-facing error with no machine code (validation errors,
// not-found, and the like).
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Reject writes an authentication/authorization rejection carrying a stable
// code consumed programmatically by clients.
func Reject(w http.ResponseWriter, status int, message, code string) {
	write(w, status, Envelope{Success: false, Message: message, Code: code})
}

// Internal writes a 500 and surfaces the underlying error string in the body.
func Internal(w http.ResponseWriter, message string, err error) {
	env := Envelope{Success: false, Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	write(w, http.StatusInternalServerError, env)
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
