package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"event-tickets-backend/config"
	c "event-tickets-backend/context"
	"event-tickets-backend/identity"
	"event-tickets-backend/model"
	"event-tickets-backend/response"

	"github.com/spf13/viper"
)

// Authenticate verifies the bearer identity token and attaches the
// resulting Identity to the request context. Handlers downstream trust
// the context and never touch the raw token.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized("Authentication required").Send(r.Context(), w)
			return
		}

		id, ok := identity.VerifyIDToken(
			token,
			viper.GetString(config.IdentityIssuer),
			viper.GetString(config.IdentityAudience),
			time.Duration(viper.GetInt(config.IdentityOfflineInterval))*time.Second,
		)
		if !ok {
			response.Unauthorized("Invalid identity token").Send(r.Context(), w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Identify attaches the caller identity when a valid bearer token is
// present but lets anonymous requests through. Used on public reads
// where admins get extra visibility.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			id, ok := identity.VerifyIDToken(
				token,
				viper.GetString(config.IdentityIssuer),
				viper.GetString(config.IdentityAudience),
				time.Duration(viper.GetInt(config.IdentityOfflineInterval))*time.Second,
			)
			if ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, c.ContextKeyIdentity, id)
}

// IdentityFromContext returns the verified caller, or nil on routes that
// skip authentication.
func IdentityFromContext(ctx context.Context) *model.Identity {
	if id, ok := ctx.Value(c.ContextKeyIdentity).(*model.Identity); ok {
		return id
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
