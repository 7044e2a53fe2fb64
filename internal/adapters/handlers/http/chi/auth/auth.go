package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/response"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/go-chi/chi/v5/middleware"
)

// TokenHeader carries the client activation token
const TokenHeader = "X-API-Token"

const (
	msgMissingToken      = "missing or invalid token"
	msgUnauthorizedToken = "token not authorized"
	msgVerifyFailed      = "token verification failed"
)

type clientContextKey struct{}

// WithClient returns a copy of ctx carrying client
func WithClient(ctx context.Context, client *domain.Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

// ClientFromContext returns the client resolved by TokenMiddleware
func ClientFromContext(ctx context.Context) (*domain.Client, bool) {
	client, ok := ctx.Value(clientContextKey{}).(*domain.Client)
	return client, ok && client != nil
}

// TokenMiddleware rejects requests without an active client token with 403
func TokenMiddleware(clients port.ClientService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(TokenHeader))
			if token == "" {
				response.Write(w, http.StatusForbidden, response.Failure(msgMissingToken))
				return
			}

			client, err := clients.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				logger.Warn("token rejected", "request_id", middleware.GetReqID(r.Context()), "error", err)
				response.Write(w, http.StatusForbidden, response.Failure(msgUnauthorizedToken))
				return
			case err != nil:
				logger.Error("token verification failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
				response.Write(w, http.StatusForbidden, response.Failure(msgVerifyFailed))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
		})
	}
}

// RateLimitKey keys rate limiting by authenticated client, falling back to the remote address
func RateLimitKey(r *http.Request) (string, error) {
	if client, ok := ClientFromContext(r.Context()); ok {
		return "client:" + client.ID.String(), nil
	}
	return r.RemoteAddr, nil
}
