// Package models defines the domain records of the Hecovačka server.
//
// # Records
//
//   - User: registered account, looked up by email at login
//   - Goal: a personal target such as "100 push-ups daily"
//   - Group: a named set of members, each embedded as a snapshot
//   - ProgressEntry: one day's logged progress against a goal
//   - Hecovacka: a short taunting or motivational message posted to a group
//
// # Relationships
//
// Records reference each other by ID strings only and nothing enforces the
// references: a progress entry may name a goal that does not exist, and group
// members are snapshots (name, current goal, progress) rather than links to
// User records.
package models
