package server

import (
	"net/http"
	"slices"
	"strings"

	"golang.org/x/time/rate"
)

// OriginPolicy is the cross-origin allow-list. A "*" entry, or an empty
// list, allows every origin.
type OriginPolicy struct {
	allowed  []string
	allowAny bool
}

// NewOriginPolicy trims entries and strips trailing slashes.
func NewOriginPolicy(origins []string) OriginPolicy {
	var p OriginPolicy
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
			continue
		case "*":
			p.allowAny = true
		}
		p.allowed = append(p.allowed, o)
	}
	if len(p.allowed) == 0 {
		p.allowAny = true
		p.allowed = []string{"*"}
	}
	return p
}

func (p OriginPolicy) Allowed(origin string) bool {
	return p.allowAny || slices.Contains(p.allowed, origin)
}

func (p OriginPolicy) setHeaders(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Methods", "GET,PUT,DELETE,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, "+editKeyHeader)
	h.Set("Access-Control-Max-Age", "86400")

	switch {
	case p.allowAny:
		h.Set("Access-Control-Allow-Origin", "*")
	case p.Allowed(origin):
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	default:
		h.Set("Access-Control-Allow-Origin", p.allowed[0])
		h.Add("Vary", "Origin")
	}
}

// corsMiddleware negotiates cross-origin headers on every response and
// answers preflight requests itself: 204 for an acceptable origin, 403
// otherwise.
func corsMiddleware(p OriginPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			p.setHeaders(w.Header(), origin)

			if r.Method == http.MethodOptions {
				if p.Allowed(origin) {
					w.WriteHeader(http.StatusNoContent)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OriginRejectedResponse echoes the origin that failed the allow-list.
type OriginRejectedResponse struct {
	Error  string `json:"error"`
	Origin string `json:"origin"`
}

// requireEditor gates writes: origin first, then the edit key.
func requireEditor(p OriginPolicy, key EditKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !p.Allowed(origin) {
				writeJSON(w, http.StatusForbidden, OriginRejectedResponse{
					Error:  "Origin not allowed",
					Origin: origin,
				})
				return
			}
			if !key.Verify(r.Header.Get(editKeyHeader)) {
				writeError(w, http.StatusUnauthorized, "invalid or missing edit key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitWrites(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, http.StatusTooManyRequests, "too many writes, retry shortly")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
