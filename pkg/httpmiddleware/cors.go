package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists origins permitted to make cross-origin requests.
	// Empty, or the single entry "*", allows every origin.
	AllowOrigins []string

	// AllowMethods defaults to GET, POST, PATCH, DELETE, OPTIONS when empty.
	AllowMethods []string

	// AllowHeaders lists permitted request headers. When empty, preflight
	// requests get their Access-Control-Request-Headers echoed back.
	AllowHeaders []string

	// AllowCredentials exposes responses to credentialed requests. With
	// credentials the wildcard origin is not allowed, so the matched origin
	// is echoed instead of "*".
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds; zero omits the header.
	MaxAge int
}

// CORS returns a middleware that answers preflight requests and decorates
// responses with the configured CORS headers.
func CORS(cfg CORSConfig) Middleware {
	methods := strings.Join(cfg.AllowMethods, ", ")
	if methods == "" {
		methods = "GET, POST, PATCH, DELETE, OPTIONS"
	}
	headers := strings.Join(cfg.AllowHeaders, ", ")
	wildcard := len(cfg.AllowOrigins) == 0 ||
		(len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := ""
			switch {
			case wildcard && cfg.AllowCredentials:
				allowed = origin
			case wildcard:
				allowed = "*"
			default:
				for _, o := range cfg.AllowOrigins {
					if strings.EqualFold(o, origin) {
						allowed = origin
						break
					}
				}
			}
			if allowed == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", methods)
				if headers != "" {
					h.Set("Access-Control-Allow-Headers", headers)
				} else if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
