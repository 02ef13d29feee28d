package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clothing-store/internal/model"
)

// Headers set by the upstream auth gateway.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// anonymous reports whether r needs the API key but no caller identity:
// registration and catalog reads.
func anonymous(r *http.Request) bool {
	if r.URL.Path == "/api/users" {
		return r.Method == http.MethodPost
	}
	return r.Method == http.MethodGet &&
		(r.URL.Path == "/api/products" || strings.HasPrefix(r.URL.Path, "/api/products/"))
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller resolved by Identity.
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(model.Actor)
	return actor, ok
}

// Identity resolves the caller from the gateway headers. Requests without a
// valid user id are rejected unless the route is anonymous. A missing role
// defaults to Customer.
func Identity(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || anonymous(r) {
				next.ServeHTTP(w, r)
				return
			}

			raw := r.Header.Get(HeaderUserID)
			if raw == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing user id")
				writeError(w, http.StatusUnauthorized, "unauthorised: missing user id")
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				logger.Warn().Str("path", r.URL.Path).Str("user_id", raw).Msg("invalid user id")
				writeError(w, http.StatusUnauthorized, "unauthorised: invalid user id")
				return
			}

			role := model.RoleCustomer
			switch r.Header.Get(HeaderUserRole) {
			case "", model.RoleCustomer:
			case model.RoleAdmin:
				role = model.RoleAdmin
			default:
				logger.Warn().Str("path", r.URL.Path).Str("role", r.Header.Get(HeaderUserRole)).Msg("unknown role")
				writeError(w, http.StatusUnauthorized, "unauthorised: unknown role")
				return
			}

			actor := model.Actor{UserID: userID, Role: role}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole rejects callers that do not hold role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorised: missing user id")
				return
			}
			if actor.Role != role {
				writeError(w, http.StatusForbidden, "forbidden: requires role "+role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}

func writeError(w http.ResponseWriter, status int, message string) {
	code := model.ErrCodeUnauthorised
	switch status {
	case http.StatusForbidden:
		code = model.ErrCodeForbidden
	case http.StatusInternalServerError:
		code = model.ErrCodeInternalError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: code, Message: message})
}
