/*
Package handler provides HTTP handler functions for follow relationships.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/resp"
)

// HandleToggleFollow follows the named user if not yet followed, unfollows
// otherwise. Self-follow is rejected.
func HandleToggleFollow(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		target, err := deps.Users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if target.ID == user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrSelfFollow))
			return
		}

		following, err := deps.Follows.Toggle(r.Context(), user.ID, target.ID)
		if err != nil {
			logx.Error(err, "Failed to toggle follow", "user_id", user.ID, "target_id", target.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"username":    target.Username,
			"isFollowing": following,
		})
	}
}

// HandleListFollowing returns a page of the users the caller follows.
func HandleListFollowing(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		page, limit := pageParams(r)
		users, total, err := deps.Follows.ListFollowing(r.Context(), user.ID, page, limit)
		if err != nil {
			logx.Error(err, "Failed to list following", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, pagedResponse("following", users, page, limit, total))
	}
}

// HandleListFollowers returns a page of the users following the caller.
func HandleListFollowers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		page, limit := pageParams(r)
		users, total, err := deps.Follows.ListFollowers(r.Context(), user.ID, page, limit)
		if err != nil {
			logx.Error(err, "Failed to list followers", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, pagedResponse("followers", users, page, limit, total))
	}
}
