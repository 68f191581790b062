package service

import (
	"net/http"
	"testing"

	"github.com/mmynk/hecovacka/internal/models"
)

type goalData struct {
	Goal models.Goal `json:"goal"`
}

func TestCreateGoalParsesTarget(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name   string
		target any
		want   int
	}{
		{"numeric string", "100", 100},
		{"number", 50, 50},
		{"fraction truncated", 12.9, 12},
		{"leading digits", "30 km", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := env.do(t, http.MethodPost, "/api/goals", map[string]any{
				"activity":  "kliky",
				"target":    tt.target,
				"unit":      "krát",
				"frequency": "denne",
				"deadline":  "22:00",
			}, "")
			if status != http.StatusOK {
				t.Fatalf("status = %d, resp = %+v", status, resp)
			}

			goal := decodeData[goalData](t, resp).Goal
			if goal.Target != tt.want {
				t.Errorf("Target = %d, want %d", goal.Target, tt.want)
			}
			if goal.ID == "" || !goal.IsActive {
				t.Errorf("unexpected goal: %+v", goal)
			}
			if goal.UserID != anonymousUserID {
				t.Errorf("UserID = %q, want %q", goal.UserID, anonymousUserID)
			}
		})
	}
}

func TestCreateGoalValidation(t *testing.T) {
	env := setupTestServer(t)

	for name, body := range map[string]map[string]any{
		"missing activity":   {"target": 10},
		"missing target":     {"activity": "beh"},
		"non-numeric target": {"activity": "beh", "target": "veľa"},
		"boolean target":     {"activity": "beh", "target": true},
	} {
		if status, resp := env.do(t, http.MethodPost, "/api/goals", body, ""); status != http.StatusBadRequest || resp.Success {
			t.Errorf("%s: status = %d, resp = %+v", name, status, resp)
		}
	}
}

func TestCreateGoalUsesTokenUser(t *testing.T) {
	env := setupTestServer(t)
	token, err := env.jwt.Generate(&models.User{ID: "user-42", Email: "eva@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	_, resp := env.do(t, http.MethodPost, "/api/goals", map[string]any{"activity": "drepy", "target": 50}, token)
	if goal := decodeData[goalData](t, resp).Goal; goal.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", goal.UserID)
	}
}

func TestListGoals(t *testing.T) {
	env := setupTestServer(t)
	env.do(t, http.MethodPost, "/api/goals", map[string]any{"activity": "drepy", "target": 50}, "")

	status, resp := env.do(t, http.MethodGet, "/api/goals", nil, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	goals := decodeData[struct {
		Goals []models.Goal `json:"goals"`
	}](t, resp).Goals

	if len(goals) != 2 {
		t.Fatalf("goals = %+v, want seeded goal plus the new one", goals)
	}
	if goals[0].ID != "goal1" || goals[1].Activity != "drepy" {
		t.Errorf("unexpected order: %s, %s", goals[0].ID, goals[1].Activity)
	}
}
