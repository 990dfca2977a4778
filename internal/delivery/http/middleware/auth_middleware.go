package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		// Fetch fresh account data from DB so role and status are current.
		// We do NOT rely on JWT claims alone: a token issued before a
		// suspension or role change must stop working immediately.
		account, err := authUC.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			}
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), account.ID.String())
		c.Set(string(domain.KeyUserEmail), account.Email)
		c.Set(string(domain.KeyUserRole), account.Role)
		c.Set(string(domain.KeyProfileID), account.ProfileID.String())

		c.Next()
	}
}
