// Package server is the http interface of the gateway.
//
// Routes:
//   - POST /api/pin pins the json body and replies {"uri": "ipfs://<cid>/metadata.json"}
//   - GET /api/example replies the bundled sample metadata
//   - GET /metrics replies the Prometheus collectors
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	"github.com/blocklords/soulbound/metrics"
	"github.com/blocklords/soulbound/pinning"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ServerConfigurations are the default parameters of the http server.
var ServerConfigurations = configuration.DefaultConfig{
	Title: "Server",
	Parameters: map[string]interface{}{
		"PORT": 5001,
	},
}

// Pinner pins the json metadata
type Pinner interface {
	Pin(ctx context.Context, body []byte) (*pinning.Result, error)
}

// Server holds the Echo instance.
type Server struct {
	e       *echo.Echo
	logger  *log.Logger
	pinner  Pinner
	metrics *metrics.Metrics
}

// New creates the server with the routes.
func New(parent *log.Logger, pinner Pinner, m *metrics.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:       e,
		logger:  parent.Child("server"),
		pinner:  pinner,
		metrics: m,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogRequestID:  true,
		LogValuesFunc: s.logRequest,
	}))
	// any origin may call the api
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	e.POST("/api/pin", s.onPin)
	e.GET("/api/example", s.onExample)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	return s
}

func (s *Server) logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	s.logger.Info("request",
		"method", v.Method,
		"uri", v.URI,
		"status", v.Status,
		"latency", v.Latency,
		"request_id", v.RequestID,
	)
	return nil
}

// ServeHTTP lets the server be used as the http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Start runs the HTTP server. It blocks until the server is closed.
// The closed server is not an error.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting server", "address", addr)
	err := s.e.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting the requests, and waits for the active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.e.Shutdown(ctx)
}
