package market

import (
	"context"
	"net/http"
	"strings"

	"MarketLedger/internal/auth"
	"MarketLedger/pkg/kit"
)

type ctxKey string

const callerKey ctxKey = "caller"

// Caller is the authenticated identity a mutating call runs as. Account is
// both the ownership stamp and the ledger account funds move against.
type Caller struct {
	Account string
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}

// ContextWithCaller exists for tests that drive the service layer directly.
func ContextWithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

func RequireCaller(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, kit.CodeUnauthorized, "missing token", nil)
				return
			}

			claims, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, kit.CodeUnauthorized, "invalid token", nil)
				return
			}

			ctx := ContextWithCaller(r.Context(), Caller{Account: claims.Account})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
