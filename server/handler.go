package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/blocklords/soulbound/example"
	"github.com/blocklords/soulbound/metrics"
	"github.com/blocklords/soulbound/pinning"
	"github.com/labstack/echo/v4"
)

// emptyBody is pinned when the request has no json body
var emptyBody = []byte("{}")

// PinReply is the successful reply of /api/pin
type PinReply struct {
	URI string `json:"uri"`
}

// ErrorReply is the failed reply
type ErrorReply struct {
	Error string `json:"error"`
}

func isJson(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// requestBody returns the json body.
// The body without json content type or empty body is the empty object.
func requestBody(r *http.Request) ([]byte, error) {
	if !isJson(r.Header.Get(echo.HeaderContentType)) {
		return emptyBody, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return emptyBody, nil
	}
	return body, nil
}

func (s *Server) onPin(c echo.Context) error {
	start := time.Now()

	body, err := requestBody(c.Request())
	if err != nil {
		s.metrics.ObservePin(metrics.OutcomeFailed, time.Since(start))
		return c.JSON(http.StatusInternalServerError, ErrorReply{Error: err.Error()})
	}

	// the pin is not cancelled if the client goes away
	ctx := context.WithoutCancel(c.Request().Context())

	result, err := s.pinner.Pin(ctx, body)
	if errors.Is(err, pinning.ErrInvalidJSON) {
		s.metrics.ObservePin(metrics.OutcomeBadRequest, time.Since(start))
		return c.JSON(http.StatusBadRequest, ErrorReply{Error: err.Error()})
	}
	if err != nil {
		s.metrics.ObservePin(metrics.OutcomeFailed, time.Since(start))
		s.logger.Error("pin failed", "error", err, "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(http.StatusInternalServerError, ErrorReply{Error: err.Error()})
	}

	s.metrics.ObservePin(metrics.OutcomeOk, time.Since(start))
	return c.JSON(http.StatusOK, PinReply{URI: result.URI})
}

func (s *Server) onExample(c echo.Context) error {
	s.metrics.ObserveExample()
	return c.JSONBlob(http.StatusOK, example.Document())
}
