package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/blorbview/pkg/readerr"
)

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, code string) error {
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
		},
	})
}

// writeFailure maps err onto a status code and error envelope.
func writeFailure(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, ErrGameNotFound), errors.Is(err, errNoContainer):
		return writeNotFound(c, err.Error())
	case readerr.KindOf(err) == readerr.KindUnknownIdentifier:
		return writeError(c, http.StatusNotFound, "not_found_error", err.Error(), string(readerr.KindUnknownIdentifier))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return writeError(c, http.StatusServiceUnavailable, "server_error", err.Error(), "")
	}
	if kind := readerr.KindOf(err); kind != "" {
		return writeError(c, http.StatusUnprocessableEntity, "invalid_game_error", err.Error(), string(kind))
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
}
