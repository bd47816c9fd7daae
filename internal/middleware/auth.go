package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosmo-sorter/cosmo/internal/auth"
	"github.com/cosmo-sorter/cosmo/internal/models"
	"github.com/cosmo-sorter/cosmo/internal/types"
)

type AuthenticatedUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    *string   `json:"email"`
}

// UserResolver loads the token subject's user record.
type UserResolver interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token before
// any entity is looked up, and places the resolved caller in the
// request context.
func AuthMiddleware(tokens *auth.TokenManager, users UserResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		subjectID, err := tokens.Decode(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.GetByID(subjectID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
		ctx.Next()
	}
}
