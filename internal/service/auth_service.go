package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/hecovacka/internal/auth"
	"github.com/mmynk/hecovacka/internal/middleware"
	"github.com/mmynk/hecovacka/internal/models"
	"github.com/mmynk/hecovacka/internal/respond"
	"github.com/mmynk/hecovacka/internal/storage"
)

// AuthService serves registration, login and the current-user lookup.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Register creates a new user account and returns a token for it.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Neplatné dáta požiadavky")
		return
	}
	s.logger.Info("Register request", "email", req.Email)

	if trim(req.Name) == "" || trim(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Všetky polia sú povinné")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			s.logger.Warn("Registration rejected", "email", req.Email, "error", err)
			respond.Error(w, http.StatusBadRequest, "Užívateľ s týmto emailom už existuje")
		case errors.Is(err, auth.ErrMissingFields):
			respond.Error(w, http.StatusBadRequest, "Všetky polia sú povinné")
		default:
			s.logger.Error("Registration failed", "email", req.Email, "error", err)
			respond.Error(w, http.StatusInternalServerError, "Chyba servera pri registrácii")
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera pri registrácii")
		return
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	respond.OK(w, "Registrácia úspešná", authResponse{Token: token, User: user.Public()})
}

// Login authenticates a user and returns a JWT token. Unknown emails and
// wrong passwords get the same 401 response.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Neplatné dáta požiadavky")
		return
	}
	s.logger.Info("Login request", "email", req.Email)

	if trim(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email a heslo sú povinné")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "email", req.Email)
			respond.Error(w, http.StatusUnauthorized, "Neplatné prihlasovacie údaje")
			return
		}
		s.logger.Error("Login error", "email", req.Email, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera pri prihlásení")
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera pri prihlásení")
		return
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	respond.OK(w, "Prihlásenie úspešné", authResponse{Token: token, User: user.Public()})
}

// Me returns the authenticated user. It must be mounted behind RequireAuth.
func (s *AuthService) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := s.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Valid token for a user the store no longer has (e.g. after a
			// restart of the in-memory store).
			respond.Error(w, http.StatusUnauthorized, "Neplatný token")
			return
		}
		s.logger.Error("Failed to load current user", "user_id", userID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Chyba servera")
		return
	}

	respond.OK(w, "", map[string]models.PublicUser{"user": user.Public()})
}
