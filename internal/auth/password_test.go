package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/hecovacka/internal/storage/memory"
)

func newTestAuthenticator() *PasswordAuthenticator {
	return NewPasswordAuthenticatorWithCost(memory.New(), bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	user, err := a.Register(ctx, " Eva ", " eva@example.com ", "heslo123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.Name != "Eva" || user.Email != "eva@example.com" {
		t.Errorf("fields not trimmed: name=%q email=%q", user.Name, user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "heslo123" {
		t.Error("password must be stored hashed")
	}

	got, err := a.Authenticate(ctx, "eva@example.com", "heslo123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate returned user %q, want %q", got.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	if _, err := a.Register(ctx, "Eva", "eva@example.com", "x"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "Eva", "eva@example.com", "y"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"", "a@b.c", "x"},
		{"A", "", "x"},
		{"A", "a@b.c", ""},
		{"   ", "a@b.c", "x"},
	}
	for _, tt := range tests {
		if _, err := a.Register(ctx, tt.name, tt.email, tt.password); !errors.Is(err, ErrMissingFields) {
			t.Errorf("Register(%q, %q, %q) = %v, want ErrMissingFields", tt.name, tt.email, tt.password, err)
		}
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	if _, err := a.Register(ctx, "Eva", "eva@example.com", "heslo123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, wrongPassword := a.Authenticate(ctx, "eva@example.com", "zle")
	_, unknownEmail := a.Authenticate(ctx, "nobody@example.com", "heslo123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}
