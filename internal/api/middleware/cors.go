package middleware

import (
	"net/http"
	"os"
	"strings"
)

// allowedOrigins parses ALLOWED_ORIGINS into a set. Absent or empty it falls
// back to the wildcard, which is only acceptable in development.
func allowedOrigins() map[string]struct{} {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return map[string]struct{}{"*": {}}
	}
	set := make(map[string]struct{})
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

// CORSMiddleware adds CORS headers for the browser frontend. The API carries
// no credentials or auth headers, so the wildcard origin is usable.
func CORSMiddleware(next http.Handler) http.Handler {
	origins := allowedOrigins()
	_, wildcard := origins["*"]

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if _, ok := origins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
