package service

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// PiValue is π to 10 significant digits. No computation is performed.
const (
	PiValue  = "3.141592654"
	PiDigits = 10
)

// timestampLayout is ISO-8601 UTC with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// AvailableEndpoints is listed in 404 responses.
var AvailableEndpoints = []string{"GET /", "GET /health", "GET /pi"}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

// Endpoints maps endpoint names to paths.
type Endpoints struct {
	Health string `json:"health"`
	Pi     string `json:"pi"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

// PiResponse is returned by GET /pi.
type PiResponse struct {
	Pi        string `json:"pi"`
	Digits    int    `json:"digits"`
	Timestamp string `json:"timestamp"`
}

// NotFoundResponse is returned for unmatched routes.
type NotFoundResponse struct {
	Error              string   `json:"error"`
	AvailableEndpoints []string `json:"availableEndpoints"`
}

// ErrorResponse is returned when a handler fails.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, InfoResponse{
		Message: "PI Calculator API with New Relic monitoring",
		Version: Version,
		Endpoints: Endpoints{
			Health: "/health",
			Pi:     "/pi",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	now := s.now()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "OK",
		Timestamp:   formatTimestamp(now),
		Uptime:      s.uptime(now),
		Environment: s.cfg.Environment,
	})
}

func (s *Server) handlePi(c echo.Context) error {
	return c.JSON(http.StatusOK, PiResponse{
		Pi:        PiValue,
		Digits:    PiDigits,
		Timestamp: formatTimestamp(s.now()),
	})
}

func (s *Server) uptime(now time.Time) float64 {
	up := now.Sub(s.started).Seconds()
	if up < 0 {
		return 0
	}
	return up
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
