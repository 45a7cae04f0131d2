package middleware

import "net/http"

// CORS wraps an http.Handler to apply Cross-Origin Resource Sharing headers
// and preflight handling for the single configured frontend origin.
//
// It sets the following response headers on every request:
// - Access-Control-Allow-Origin: the configured origin
// - Access-Control-Allow-Credentials: true
// - Access-Control-Allow-Methods: GET,POST,OPTIONS
// - Access-Control-Allow-Headers: the auth and AWS signing headers
//
// For HTTP OPTIONS (preflight) requests it responds with 200 OK and does not
// call the next handler.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
