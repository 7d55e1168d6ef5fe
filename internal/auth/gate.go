package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type RouteClass int

const (
	RoutePublic RouteClass = iota
	RoutePublicAPI
	RouteProtected
	RouteAsset
)

var (
	publicPages = map[string]bool{
		"/":                true,
		"/login":           true,
		"/register":        true,
		"/forgot-password": true,
		"/healthz":         true,
		"/metrics":         true,
	}

	publicAPIPrefixes = []string{"/api/auth/login", "/api/auth/register"}

	assetPrefixes = []string{"/_next/static", "/_next/image", "/favicon.ico"}

	authPages = map[string]bool{"/login": true, "/register": true}
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

func Classify(path string) RouteClass {
	for _, prefix := range assetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RouteAsset
		}
	}
	if publicPages[path] {
		return RoutePublic
	}
	for _, prefix := range publicAPIPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RoutePublicAPI
		}
	}
	return RouteProtected
}

func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// Gate only checks that a session cookie is present. Token validity is
// checked later by the Resolver on API routes.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		hasSession := sessionToken(r) != ""

		if hasSession && authPages[path] {
			http.Redirect(w, r, DashboardPath, http.StatusTemporaryRedirect)
			return
		}

		switch Classify(path) {
		case RoutePublic, RoutePublicAPI, RouteAsset:
			next.ServeHTTP(w, r)
			return
		}

		if !hasSession {
			if IsAPIPath(path) {
				WriteUnauthorized(w)
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func WriteUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"}); err != nil {
		slog.Error("error writing unauthorized response", "error", err)
	}
}
