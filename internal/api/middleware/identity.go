package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/apperrors"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

// Identity headers forwarded by the authenticating proxy in front of the API.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

type userContextKey struct{}

// UserToucher records a request from an authenticated user.
// It is satisfied by *service.UserService.
type UserToucher interface {
	Touch(ctx context.Context, id, email, displayName string) (model.User, error)
}

// Identity resolves the calling user from the identity headers and stores it in the
// request context. First-time users are registered by the toucher.
//
// Returns 401 when the user ID header is missing and 403 for blocked users.
func Identity(users UserToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderUserID)
			if id == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing user identity")
				return
			}

			u, err := users.Touch(r.Context(), id, r.Header.Get(HeaderUserEmail), r.Header.Get(HeaderUserName))
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrUserBlocked):
					response.RespondError(w, http.StatusForbidden, apperrors.ErrUserBlocked.Error(), "Account has been blocked")
				case errors.Is(err, apperrors.ErrInvalidUserID):
					response.RespondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				default:
					response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToIdentifyUser.Error(), err.Error())
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user stored by Identity.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(model.User)
	return u, ok
}
