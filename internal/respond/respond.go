// Package respond writes the JSON envelope every HTTP endpoint answers with:
//
//	{"success": true, "message": "...", "data": {...}}
//
// Error envelopes also carry a timestamp.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Envelope is the outer shape of every JSON response.
type Envelope struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message,omitempty"`
	Data               any      `json:"data,omitempty"`
	Error              string   `json:"error,omitempty"`
	AvailableEndpoints []string `json:"availableEndpoints,omitempty"`
	Timestamp          string   `json:"timestamp,omitempty"`
}

// Timestamp formats t the way clients expect ISO timestamps (millisecond precision, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Timestamp: Timestamp(time.Now()),
	})
}

// ErrorDetail writes a failure envelope with an additional error detail.
func ErrorDetail(w http.ResponseWriter, status int, message, detail string) {
	JSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: Timestamp(time.Now()),
	})
}
