package service

import (
	"net/http"
	"time"

	"github.com/mmynk/hecovacka/internal/respond"
)

// InfoService serves the root, health and API description endpoints.
type InfoService struct {
	env     string
	port    int
	started time.Time
	now     func() time.Time
}

// NewInfoService creates the info handlers for a server started now.
func NewInfoService(env string, port int) *InfoService {
	return &InfoService{env: env, port: port, started: time.Now(), now: time.Now}
}

// availableEndpoints is listed in every 404 response.
var availableEndpoints = []string{
	"/ (root)",
	"/health",
	"/api",
	"/api/auth",
	"/api/groups",
	"/api/goals",
	"/api/progress",
	"/api/hecovacky",
	"/ws",
}

type rootResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Uptime      int64  `json:"uptime"`
	Environment string `json:"environment"`
	Port        int    `json:"port"`
	CORS        string `json:"cors"`
}

type apiResponse struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Timestamp     string            `json:"timestamp"`
	Endpoints     map[string]string `json:"endpoints"`
	Status        string            `json:"status"`
	Documentation string            `json:"documentation"`
}

// Root handles GET /.
func (s *InfoService) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, rootResponse{
		Success:   true,
		Message:   "🔥 Hecovačka API is running!",
		Timestamp: respond.Timestamp(s.now()),
		Endpoints: map[string]string{
			"health":    "/health",
			"api":       "/api",
			"auth":      "/api/auth",
			"groups":    "/api/groups",
			"goals":     "/api/goals",
			"progress":  "/api/progress",
			"hecovacky": "/api/hecovacky",
			"realtime":  "/ws",
		},
	})
}

// Health handles GET /health.
func (s *InfoService) Health(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	respond.JSON(w, http.StatusOK, healthResponse{
		Success:     true,
		Message:     "Hecovačka server is running! 🔥",
		Timestamp:   respond.Timestamp(now),
		Uptime:      int64(now.Sub(s.started).Seconds()),
		Environment: s.env,
		Port:        s.port,
		CORS:        "enabled",
	})
}

// API handles GET /api.
func (s *InfoService) API(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, apiResponse{
		Success:   true,
		Message:   "Hecovačka API v1.0",
		Timestamp: respond.Timestamp(s.now()),
		Endpoints: map[string]string{
			"auth":      "/api/auth (POST /login, /register)",
			"groups":    "/api/groups",
			"goals":     "/api/goals",
			"progress":  "/api/progress",
			"hecovacky": "/api/hecovacky",
		},
		Status:        "All systems operational",
		Documentation: "See README.md for API documentation",
	})
}

// NotFound answers every unmatched route with a 404 envelope listing the
// available endpoints.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusNotFound, respond.Envelope{
		Success:            false,
		Message:            "API endpoint not found: " + r.URL.RequestURI(),
		AvailableEndpoints: availableEndpoints,
		Timestamp:          respond.Timestamp(time.Now()),
	})
}
