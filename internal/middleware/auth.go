package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/cash_memo_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware admits requests carrying a bearer token signed with jwtSecret.
// Tokens are issued by the dashboard's auth service; the ledger only verifies them
// and attributes every mutation to the token subject.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		header := c.GetHeader("Authorization")
		if header == "" {
			logger.Warn("Authorization header missing")
			unauthorized(c, "Authorization header required")
			return
		}
		raw, ok := bearerToken(header)
		if !ok {
			logger.Warn("Authorization header is not a bearer token")
			unauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := utils.VerifyToken(raw, jwtSecret)
		if err != nil {
			logger.Warn("Rejected bearer token", slog.String("error", err.Error()))
			unauthorized(c, tokenErrorMessage(err))
			return
		}

		ctx := WithUserID(c.Request.Context(), userID)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	case errors.Is(err, utils.ErrTokenSubject):
		return "Invalid token claims"
	default:
		return "Invalid token"
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
