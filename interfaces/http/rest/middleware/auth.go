package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"inviter-backend/domain/core/valueobjects"
)

type contextKey string

const userIDKey contextKey = "userID"

// Claims are the JWT claims this service issues and accepts
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticate validates the Bearer token and stores the caller's user ID
// in the request context.
func Authenticate(secret string, logger *zap.Logger) func(next http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondUnauthorized(w, "missing authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondUnauthorized(w, "invalid authorization header")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, keyFunc,
				jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				logger.Debug("token rejected", zap.Error(err))
				respondUnauthorized(w, "invalid token")
				return
			}

			userID, err := valueobjects.NewUserIDFromString(claims.Subject)
			if err != nil {
				respondUnauthorized(w, "invalid subject claim")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated caller's ID from the request context
func UserID(ctx context.Context) (valueobjects.UserID, bool) {
	id, ok := ctx.Value(userIDKey).(valueobjects.UserID)
	return id, ok
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
