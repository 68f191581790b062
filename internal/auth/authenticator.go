package auth

import (
	"context"

	"github.com/mmynk/hecovacka/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Handlers depend on this rather than on bcrypt so another credential scheme
// can be swapped in.
type Authenticator interface {
	// Register creates a new account. It returns ErrMissingFields when any
	// argument is empty and ErrEmailExists when the email is taken.
	Register(ctx context.Context, name, email, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	// Unknown email and wrong credential both return ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
