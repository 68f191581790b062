package models

import "time"

// DateLayout is the calendar-day format of ProgressEntry.Date.
const DateLayout = "2006-01-02"

// ProgressEntry records how much of a goal was completed on one day.
type ProgressEntry struct {
	ID     string `json:"id"`
	GoalID string `json:"goalId"`
	UserID string `json:"userId"`

	// Date is the calendar day (UTC) in DateLayout format.
	Date string `json:"date"`

	Completed int `json:"completed"`
	Target    int `json:"target"`

	// Percentage is derived from Completed and Target when the entry is
	// created. It is not clamped, so over-achievement shows above 100.
	Percentage int `json:"percentage"`

	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}
