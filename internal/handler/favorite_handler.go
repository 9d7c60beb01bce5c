/*
Package handler provides HTTP handler functions for favorite books.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/req"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

type AddFavoriteInput struct {
	BookKey          string `json:"bookKey"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	FirstPublishYear *int   `json:"firstPublishYear"`
	CoverID          *int64 `json:"coverId"`
	CoverURL         string `json:"coverUrl"`
}

type RemoveFavoriteInput struct {
	BookKey string `json:"bookKey"`
}

// HandleAddFavorite adds a book to the caller's favorites. Adding the same
// book twice is a validation error.
func HandleAddFavorite(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input AddFavoriteInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if strings.TrimSpace(input.BookKey) == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrBookInfoRequired))
			return
		}

		favorite, err := deps.Favorites.Add(r.Context(), store.Favorite{
			UserID:           user.ID,
			BookKey:          strings.TrimSpace(input.BookKey),
			Title:            strings.TrimSpace(input.Title),
			Author:           strings.TrimSpace(input.Author),
			FirstPublishYear: input.FirstPublishYear,
			CoverID:          input.CoverID,
			CoverURL:         strings.TrimSpace(input.CoverURL),
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrDuplicateFavorite))
				return
			}
			logx.Error(err, "Failed to add favorite", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondCreated(w, r, favorite)
	}
}

// HandleRemoveFavorite removes a book from the caller's favorites.
func HandleRemoveFavorite(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input RemoveFavoriteInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		err := deps.Favorites.Remove(r.Context(), user.ID, strings.TrimSpace(input.BookKey))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
				return
			}
			logx.Error(err, "Failed to remove favorite", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"removed": true})
	}
}

// HandleListFavorites returns the caller's favorites, most recently added first.
func HandleListFavorites(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		favorites, err := deps.Favorites.ListByUser(r.Context(), user.ID)
		if err != nil {
			logx.Error(err, "Failed to list favorites", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"favorites": favorites})
	}
}
