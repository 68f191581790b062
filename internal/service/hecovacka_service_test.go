package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/mmynk/hecovacka/internal/models"
)

type messageList struct {
	Messages []models.Hecovacka `json:"messages"`
}

func TestGroupedHecovacky(t *testing.T) {
	env := setupTestServer(t)

	status, resp := env.do(t, http.MethodGet, "/api/hecovacky/grouped-demo-group", nil, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	msgs := decodeData[messageList](t, resp).Messages
	if len(msgs) != 3 {
		t.Fatalf("messages = %+v", msgs)
	}
	for i, id := range []string{"msg1", "msg2", "msg3"} {
		if msgs[i].ID != id {
			t.Errorf("messages[%d] = %s, want %s (newest first)", i, msgs[i].ID, id)
		}
	}
}

func TestGroupedHecovackyUnknownGroupIsEmpty(t *testing.T) {
	env := setupTestServer(t)

	status, resp := env.do(t, http.MethodGet, "/api/hecovacky/grouped-unknown-id", nil, "")
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, resp = %+v", status, resp)
	}
	msgs := decodeData[messageList](t, resp).Messages
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("messages = %#v, want empty list", msgs)
	}
}

func TestHecovackyWithoutPrefixIsNotARoute(t *testing.T) {
	env := setupTestServer(t)

	if status, _ := env.do(t, http.MethodGet, "/api/hecovacky/demo-group", nil, ""); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestSendHecovacka(t *testing.T) {
	env := setupTestServer(t)

	status, resp := env.do(t, http.MethodPost, "/api/hecovacky", map[string]any{
		"groupId":  "demo-group",
		"toUserId": "user2",
		"message":  "Michal, vstávaj!",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, resp = %+v", status, resp)
	}
	msg := decodeData[struct {
		Hecovacka models.Hecovacka `json:"hecovacka"`
	}](t, resp).Hecovacka

	if msg.SenderName != anonymousSenderName {
		t.Errorf("SenderName = %q, want %q", msg.SenderName, anonymousSenderName)
	}
	if msg.Type != models.DefaultHecovackaType {
		t.Errorf("Type = %q, want default", msg.Type)
	}
	if msg.GroupID != "demo-group" || msg.ToUserID != "user2" {
		t.Errorf("unexpected message: %+v", msg)
	}

	_, resp = env.do(t, http.MethodGet, "/api/hecovacky/grouped-demo-group", nil, "")
	msgs := decodeData[messageList](t, resp).Messages
	if len(msgs) != 4 || msgs[0].ID != msg.ID {
		t.Errorf("new message should be listed first, got %+v", msgs)
	}
}

func TestSendHecovackaAuthenticatedSender(t *testing.T) {
	env := setupTestServer(t)
	user := models.NewUser("janko@example.com", "Janko", "hash")
	if err := env.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	token, err := env.jwt.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	_, resp := env.do(t, http.MethodPost, "/api/hecovacky", map[string]any{
		"groupId": "demo-group", "message": "Poď!", "type": "vtipné",
	}, token)
	msg := decodeData[struct {
		Hecovacka models.Hecovacka `json:"hecovacka"`
	}](t, resp).Hecovacka

	if msg.SenderName != "Janko" || msg.Type != "vtipné" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestSendHecovackaRequiresMessage(t *testing.T) {
	env := setupTestServer(t)

	status, resp := env.do(t, http.MethodPost, "/api/hecovacky", map[string]any{"groupId": "demo-group"}, "")
	if status != http.StatusBadRequest || resp.Message != "Správa je povinná" {
		t.Errorf("status = %d, message = %q", status, resp.Message)
	}
}
