package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/playforge/arcadehub/internal/auth"
	"github.com/playforge/arcadehub/internal/hub"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the authenticated principal, or the anonymous
// sentinel when the request carried no token.
func PrincipalFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey).(string); ok {
		return p
	}
	return auth.Anonymous
}

// AuthMiddleware resolves the bearer token into a principal. A missing token
// leaves the caller anonymous; a present but invalid token is rejected.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, auth.Anonymous)))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			s.audit.LogTokenRejected(middleware.GetReqID(r.Context()), r.RemoteAddr, "malformed authorization header")
			s.errorHandler.HandleError(w, r, hub.ErrUnauthenticated)
			return
		}
		principal, err := s.issuer.Verify(strings.TrimSpace(token))
		if err != nil {
			s.audit.LogTokenRejected(middleware.GetReqID(r.Context()), r.RemoteAddr, err.Error())
			s.errorHandler.HandleError(w, r, hub.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
	})
}

// CORSMiddleware allows browser game clients on other origins to call the API.
func (s *Server) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
