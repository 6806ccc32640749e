package middlewares

import "net/http"

// ContentMiddleware sets the response content type for a route group.
func ContentMiddleware(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			response.Header().Set("Content-Type", contentType)
			next.ServeHTTP(response, request)
		})
	}
}
