package middleware

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/pkg/auth"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/common"
)

// Authenticate validates the bearer token and places the owner identity and
// plan claim into the request context. Every route behind it can assume an
// owner ID is present.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Token rejected", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
				return
			}

			ctx := common.WithOwnerID(r.Context(), claims.OwnerID)
			if claims.Plan != "" {
				ctx = common.WithPlan(ctx, claims.Plan)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitByIP throttles unauthenticated traffic per client address.
func RateLimitByIP(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), "ip:"+ip)
			if err != nil {
				logger.Warn("Rate limiter error", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByOwner throttles authenticated traffic per owner. Must run
// after Authenticate.
func RateLimitByOwner(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, ok := common.GetOwnerID(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			allowed, err := limiter.Allow(r.Context(), "owner:"+ownerID)
			if err != nil {
				logger.Warn("Rate limiter error", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
