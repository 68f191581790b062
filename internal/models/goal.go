package models

import "time"

// Goal is a personal target, e.g. 100 push-ups ("kliky") daily by 22:00.
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Activity    string    `json:"activity"`
	Target      int       `json:"target"`
	Unit        string    `json:"unit"`
	Frequency   string    `json:"frequency"`
	Deadline    string    `json:"deadline"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	IsActive    bool      `json:"isActive"`
}
