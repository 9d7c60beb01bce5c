/*
Package handler provides HTTP handler functions for letters (short free-form posts).
*/
package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/req"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

const maxLetterContentLen = 5000

type CreateLetterInput struct {
	Content string `json:"content"`
}

// HandleCreateLetter creates a letter.
func HandleCreateLetter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateLetterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentRequired))
			return
		}
		if utf8.RuneCountInString(content) > maxLetterContentLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentTooLong))
			return
		}

		letter, err := deps.Letters.Create(r.Context(), store.Letter{
			AuthorID: user.ID,
			Content:  content,
		})
		if err != nil {
			logx.Error(err, "Failed to create letter", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		letter.AuthorUsername = user.Username
		letter.AuthorAvatarKey = user.AvatarKey
		resp.RespondCreated(w, r, letter)
	}
}

// HandleListLetters returns a page of letters, newest first.
func HandleListLetters(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)
		page, limit := pageParams(r)

		letters, total, err := deps.Letters.List(r.Context(), page, limit)
		if err != nil {
			logx.Error(err, "Failed to list letters")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		items := make([]map[string]any, 0, len(letters))
		for _, l := range letters {
			items = append(items, map[string]any{
				"letter":  l,
				"isLiked": l.IsLikedBy(user.ID),
			})
		}
		resp.RespondSuccess(w, r, pagedResponse("letters", items, page, limit, total))
	}
}

// HandleDeleteLetter deletes the caller's own letter.
func HandleDeleteLetter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		letter, err := deps.Letters.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}
		if letter.AuthorID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotOwner))
			return
		}

		if err := deps.Letters.Delete(r.Context(), letter.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "Failed to delete letter", "letter_id", letter.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"deleted": true})
	}
}

// HandleLikeLetter toggles the caller's like on a letter.
func HandleLikeLetter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		liked, count, err := deps.Letters.ToggleLike(r.Context(), chi.URLParam(r, "id"), user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
				return
			}
			logx.Error(err, "Failed to toggle letter like")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"isLiked": liked, "likesCount": count})
	}
}
