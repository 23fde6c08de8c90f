package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authExemptPaths are reachable without credentials so probes and
// documentation keep working when an API key is configured.
var authExemptPaths = map[string]bool{
	"/":             true,
	"/health":       true,
	"/metrics":      true,
	"/docs":         true,
	"/openapi.json": true,
	"/redoc":        true,
}

func authExempt(path string) bool {
	if authExemptPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/swagger/")
}

// APIKeyMiddleware enforces the configured key on every non-exempt route. The
// key is accepted either as X-API-Key or as a Bearer token. A missing key is
// 401, a wrong key is 403.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || authExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					presented = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if presented == "" {
				writeJSONError(w, http.StatusUnauthorized, "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				writeJSONError(w, http.StatusForbidden, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
