// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"log/slog"
	"net/http"

	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"

	"github.com/gin-gonic/gin"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; it returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// ExtractActor builds the placement actor for the authenticated user of the request
func ExtractActor(c *gin.Context) (placement.Actor, error) {
	user, err := ExtractUser(c)
	if err != nil {
		return placement.Actor{}, err
	}
	return placement.ActorFromUser(user, c.ClientIP()), nil
}

// StatusFor maps a placement error kind to its HTTP status
func StatusFor(err error) int {
	var pErr *placement.Error
	if !errors.As(err, &pErr) {
		return http.StatusInternalServerError
	}
	switch pErr.Kind {
	case placement.KindNotFound:
		return http.StatusNotFound
	case placement.KindForbidden:
		return http.StatusForbidden
	case placement.KindConflict:
		return http.StatusConflict
	case placement.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as an ErrorResponse. Typed placement failures expose
// their reason, anything else is logged and reported as a generic failure.
func WriteError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	var pErr *placement.Error
	if errors.As(err, &pErr) {
		c.JSON(status, ErrorResponse{Error: pErr.Reason})
		return
	}
	slog.ErrorContext(c.Request.Context(), fallback,
		slog.String("path", c.FullPath()),
		slog.Any("error", err),
	)
	c.JSON(status, ErrorResponse{Error: fallback})
}
