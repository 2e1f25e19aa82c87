package utilities

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrInvalidAuthHeader is returned when the Authorization header carries no bearer token
var ErrInvalidAuthHeader = errors.New("Invalid authorization header")

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header
func ExtractBearerToken(c *gin.Context) (string, error) {
	const bearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(bearerSchema) || !strings.EqualFold(authHeader[:len(bearerSchema)], bearerSchema) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerSchema):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}
