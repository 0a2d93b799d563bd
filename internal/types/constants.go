package types

import (
	"os"
	"strings"
)

// ContextUserKey is the gin context key holding the authenticated user.
const ContextUserKey = "user"

var (
	// Origins of the proposal SPA in local development (Vite dev server).
	devOrigins = []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

// initAllowedOrigins combines the dev origins with CLIENT_URL and the
// comma-separated ALLOWED_ORIGINS list.
func initAllowedOrigins() []string {
	origins := make([]string, len(devOrigins))
	copy(origins, devOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
