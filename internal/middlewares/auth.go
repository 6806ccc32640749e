package middlewares

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v4"

	"github.com/pruebavolte/salvadorex-queue/internal/redis"
)

// TenantIDKey is the request-context key holding the resolved tenant
// identity. Handlers behind AuthMiddleware may assume it is present.
const TenantIDKey string = "tenantID"

// AuthMiddleware resolves the calling terminal's tenant identity: a bearer
// JWT carrying a tenant_id claim, cross-checked against the session store.
// Requests without a resolvable tenant are rejected with 401.
func AuthMiddleware(jwtSecret string, memStorage redis.MemStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			tokenString := request.Header.Get("Authorization")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				http.Error(responseWriter, "Invalid token", http.StatusUnauthorized)

				return
			}

			tenantID, ok := claims["tenant_id"].(string)
			if !ok {
				http.Error(responseWriter, "Invalid token claims", http.StatusUnauthorized)

				return
			}

			// Check if the token exists in the session store and matches the tenant
			result, err := memStorage.Get(request.Context(), tokenString)
			if result != tenantID || err != nil {
				http.Error(responseWriter, "Invalid or expired token", http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(request.Context(), TenantIDKey, tenantID)
			next.ServeHTTP(responseWriter, request.WithContext(ctx))
		})
	}
}
