package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// requireCallbackAuth authenticates the agent's callback. The shared secret
// may arrive as a Bearer token, an API-key header, or a webhook-secret
// header; any one match is sufficient. With no secret configured the check is
// bypassed entirely (deliberate demo-mode relaxation).
func (s *Server) requireCallbackAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.secret == "" {
			next.ServeHTTP(w, r)
			return
		}

		candidates := []string{
			strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
			r.Header.Get("X-API-Key"),
			r.Header.Get("X-Webhook-Secret"),
		}
		for _, c := range candidates {
			if c != "" && subtle.ConstantTimeCompare([]byte(c), []byte(s.secret)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
		}

		zap.L().Warn("callback auth rejected", zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusUnauthorized, "invalid or missing callback secret")
	})
}
