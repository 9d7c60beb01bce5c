/*
Package handler provides the HTTP handlers and routing setup for the inkwell server.

This file defines the bearer-token authentication middleware. The credential is
an opaque token stored on the account row; every authenticated request resolves
it through the identity store, so revocation is immediate.
*/
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/randx"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// CurrentUser returns the authenticated account stored by RequireAuth, or
// false when the request carried no resolvable credential.
func CurrentUser(r *http.Request) (store.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(store.User)
	return u, ok
}

// RequireAuth resolves the Authorization bearer token to an account and puts
// it on the request context. Missing, malformed, or unknown tokens get a 401.
func RequireAuth(deps *AppDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || !randx.IsValidToken(token) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			user, err := deps.Users.GetByToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					logx.Error(err, "Failed to resolve bearer token")
				}
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
