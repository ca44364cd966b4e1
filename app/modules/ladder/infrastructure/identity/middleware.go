package ladderidentity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
)

type ctxKey struct{}

// WithActor stores the actor on the context.
func WithActor(ctx context.Context, actor ladderdomain.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(ctx context.Context) (ladderdomain.Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(ladderdomain.Actor)
	return actor, ok
}

// Authenticate rejects requests without a valid bearer token and stores the actor otherwise.
func Authenticate(p Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearer(r)
			if err != nil {
				unauthorized(w, err)
				return
			}
			actor, err := p.ValidateToken(token)
			if err != nil {
				logger.DebugContext(r.Context(), "Rejected bearer token",
					attr.String("path", r.URL.Path),
					attr.Error(err),
				)
				unauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func bearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

func unauthorized(w http.ResponseWriter, err error) {
	code := "invalid_token"
	switch {
	case errors.Is(err, ErrMissingToken):
		code = "missing_token"
	case errors.Is(err, ErrExpiredToken):
		code = "expired_token"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="padel-ladder"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": err.Error()},
	})
}
