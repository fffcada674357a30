package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/skillbridge/internal/api/auth"
	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// Authenticate resolves the session token to a user and stores it on the context
func Authenticate(deps *handler.Dependencies) gin.HandlerFunc {
	revoker := deps.Revoker
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}

	return func(c *gin.Context) {
		token := handler.TokenFromRequest(c, deps.Cookie.Name)
		if token == "" {
			handler.AbortWithMessage(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		claims, err := deps.Tokens.Parse(token)
		if err != nil {
			handler.AbortWithMessage(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := c.Request.Context()

		revoked, err := revoker.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			deps.Logger.Error("Failed to check token revocation", slog.Any("error", err))
			handler.AbortWithMessage(c, http.StatusUnauthorized, "Authentication failed")
			return
		}
		if revoked {
			handler.AbortWithMessage(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := deps.Store.GetUserByID(ctx, claims.UserID())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				handler.AbortWithMessage(c, http.StatusUnauthorized, "User not found")
				return
			}
			deps.Logger.Error("Failed to load authenticated user", slog.Any("error", err))
			handler.AbortWithMessage(c, http.StatusUnauthorized, "Authentication failed")
			return
		}

		handler.SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireRole rejects authenticated users whose role differs; use after Authenticate
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := handler.CurrentUser(c)
		if user == nil || user.Role != role {
			handler.AbortWithMessage(c, http.StatusForbidden, "This action requires the "+role+" role")
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	if user := handler.CurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}
