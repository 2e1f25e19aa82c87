// Package middleware contain utilities middleware code
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"placement-portal-backend/internal/auth"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/utilities"
)

// UserFinder loads the account a token was issued for
type UserFinder interface {
	FindUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RequireAuth validates the Bearer token in the Authorization header, loads the
// user it was issued for and stores both the claims and the user in the context.
func RequireAuth(users UserFinder, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		claims, err := tokens.ValidatedToken(tokenString)
		if err != nil {
			msg := "Invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Access token expired"
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: msg})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Invalid access token",
			})
			return
		}

		foundUser, err := users.FindUser(ctx.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, placement.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
					Error: "User not exist",
				})
				return
			}
			utilities.WriteError(ctx, err, "Failed to retrieve user data")
			ctx.Abort()
			return
		}

		ctx.Set("claims", claims)
		ctx.Set("user", *foundUser)
		ctx.Next()
	}
}

// CheckRole will protect endpoint from user that is not a specific roles
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if !slices.Contains(roles, user.Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "User doesn't have permission to access",
			})
			return
		}
		ctx.Next()
	}
}

// JwtBlacklistCheck rejects requests whose token id has been revoked.
// It must run after RequireAuth.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, _ := ctx.Get("claims")
		claims, ok := raw.(*auth.Claims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token claims not found",
			})
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(ctx.Request.Context(), claims.ID)
		if err != nil {
			slog.ErrorContext(ctx.Request.Context(), "blacklist lookup failed", slog.Any("error", err))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to validate token",
			})
			return
		}

		if isBlacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}
		ctx.Next()
	}
}
