// Package calculator holds the progress arithmetic shared by the HTTP
// handlers and the demo seed.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmynk/hecovacka/internal/models"
)

// BehindThreshold is the percentage below which a member counts as behind.
const BehindThreshold = 50

// MaxCount bounds counts in either direction, whether sent as numbers or strings.
const MaxCount = math.MaxInt32

// ErrNotANumber is returned when a count has no leading integer or falls
// outside ±MaxCount.
var ErrNotANumber = errors.New("value is not a number")

// Percentage computes round(completed/target*100) with halves rounded up.
// Over-achievement is not clamped, but the result saturates at the int range
// instead of wrapping. A zero target yields 0.
func Percentage(completed, target int) int {
	if target == 0 {
		return 0
	}
	p := math.Floor(float64(completed)/float64(target)*100 + 0.5)
	switch {
	case p >= math.MaxInt:
		return math.MaxInt
	case p <= math.MinInt:
		return math.MinInt
	}
	return int(p)
}

// MemberStatus classifies a member by their progress percentage.
func MemberStatus(percentage int) string {
	if percentage < BehindThreshold {
		return models.MemberStatusBehind
	}
	return models.MemberStatusActive
}

// Snapshot builds a member progress snapshot from raw counts.
func Snapshot(current, target int) models.MemberProgress {
	return models.MemberProgress{
		Current:    current,
		Target:     target,
		Percentage: Percentage(current, target),
	}
}

// ParseCount reads the leading integer of s, the way clients that send
// counts as form strings expect: "100" is 100, " 42 kliky" is 42, "3.9" is 3.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n > MaxCount || n < -MaxCount {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return n, nil
}

// TruncateCount converts a JSON number to a count, dropping any fraction.
func TruncateCount(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > MaxCount {
		return 0, fmt.Errorf("%w: %v", ErrNotANumber, f)
	}
	return int(f), nil
}
