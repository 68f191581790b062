package models

import "time"

// Group is a set of people who keep each other accountable.
type Group struct {
	// ID is the unique identifier for the group. Seeded groups use readable
	// IDs such as "demo-group", created ones get a UUID.
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Members are snapshots of each member's current state, in display order.
	Members []Member `json:"members"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"createdAt"`
}

// Member is an embedded snapshot of one group member. It is not kept in sync
// with any User or Goal record.
type Member struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	CurrentGoal string         `json:"currentGoal"`
	Progress    MemberProgress `json:"progress"`
	Status      string         `json:"status"`
}

// MemberProgress is the member's progress toward their current goal today.
type MemberProgress struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}

// Member statuses used by the demo data and the client.
const (
	MemberStatusActive = "active"
	MemberStatusBehind = "behind"
)
