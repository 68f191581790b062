package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/calculator"
	"github.com/mmynk/hecovacka/internal/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 10 << 20

// Placeholders used for requests without an authenticated user.
const (
	anonymousUserID     = "current-user"
	anonymousSenderName = "Ty"
)

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// count is a request field that clients send either as a JSON number or as
// a numeric string.
type count struct {
	raw json.RawMessage
}

func (c *count) UnmarshalJSON(b []byte) error {
	c.raw = append(c.raw[:0], b...)
	return nil
}

// present reports whether the field was sent with a non-null value.
func (c count) present() bool {
	trimmed := bytes.TrimSpace(c.raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// value converts the field to an int. Numbers are truncated, strings are
// read up to their first non-digit.
func (c count) value() (int, error) {
	if !c.present() {
		return 0, calculator.ErrNotANumber
	}
	raw := bytes.TrimSpace(c.raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, calculator.ErrNotANumber
		}
		return calculator.ParseCount(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, calculator.ErrNotANumber
	}
	return calculator.TruncateCount(f)
}

// requestUserID returns the authenticated user ID or the anonymous placeholder.
func requestUserID(r *http.Request) string {
	if id := middleware.GetUserID(r.Context()); id != "" {
		return id
	}
	return anonymousUserID
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func newID() string {
	return uuid.NewString()
}
