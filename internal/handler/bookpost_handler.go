/*
Package handler provides HTTP handler functions for book-scoped posts.

Deep dives (long-form analysis, spoiler by default) and excerpts (quoted
passages) share one storage shape and one set of handlers, parameterized by
repository and content limit.
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

const (
	maxDeepDiveContentLen = 10000
	maxExcerptContentLen  = 5000
)

// bookPostRules fixes the per-kind validation knobs.
type bookPostRules struct {
	maxContentLen  int
	spoilerDefault bool
}

var (
	deepDiveRules = bookPostRules{maxContentLen: maxDeepDiveContentLen, spoilerDefault: true}
	excerptRules  = bookPostRules{maxContentLen: maxExcerptContentLen, spoilerDefault: false}
)

type CreateBookPostInput struct {
	Book            BookRefInput `json:"book"`
	Content         string       `json:"content"`
	ContainsSpoiler *bool        `json:"containsSpoiler"`
}

type UpdateBookPostInput struct {
	Content         string `json:"content"`
	ContainsSpoiler bool   `json:"containsSpoiler"`
}

// HandleCreateBookPost creates one post of the repo's kind.
func HandleCreateBookPost(deps *AppDeps, posts *store.BookPosts, rules bookPostRules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateBookPostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentRequired))
			return
		}
		if utf8.RuneCountInString(content) > rules.maxContentLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentTooLong))
			return
		}
		if strings.TrimSpace(input.Book.BookKey) == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrBookInfoRequired))
			return
		}

		containsSpoiler := rules.spoilerDefault
		if input.ContainsSpoiler != nil {
			containsSpoiler = *input.ContainsSpoiler
		}

		post, err := posts.Create(r.Context(), store.BookPost{
			AuthorID: user.ID,
			Book: store.BookRef{
				BookKey:  strings.TrimSpace(input.Book.BookKey),
				Title:    strings.TrimSpace(input.Book.Title),
				Author:   strings.TrimSpace(input.Book.Author),
				CoverURL: strings.TrimSpace(input.Book.CoverURL),
			},
			Content:         content,
			ContainsSpoiler: containsSpoiler,
		})
		if err != nil {
			logx.Error(err, "Failed to create book post", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		post.AuthorUsername = user.Username
		post.AuthorAvatarKey = user.AvatarKey
		resp.RespondCreated(w, r, post)
	}
}

// HandleListBookPosts returns a page of posts of the repo's kind, newest first.
func HandleListBookPosts(deps *AppDeps, posts *store.BookPosts, itemsKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)
		page, limit := pageParams(r)

		list, total, err := posts.List(r.Context(), page, limit)
		if err != nil {
			logx.Error(err, "Failed to list book posts")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		items := make([]map[string]any, 0, len(list))
		for _, p := range list {
			items = append(items, map[string]any{
				"post":    p,
				"isLiked": p.IsLikedBy(user.ID),
			})
		}
		resp.RespondSuccess(w, r, pagedResponse(itemsKey, items, page, limit, total))
	}
}

// HandleGetBookPost returns one post.
func HandleGetBookPost(deps *AppDeps, posts *store.BookPosts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)

		post, err := posts.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"post":    post,
			"isLiked": post.IsLikedBy(user.ID),
		})
	}
}

// HandleUpdateBookPost edits the caller's own post.
func HandleUpdateBookPost(deps *AppDeps, posts *store.BookPosts, rules bookPostRules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		post, err := posts.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}
		if post.AuthorID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotOwner))
			return
		}

		var input UpdateBookPostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentRequired))
			return
		}
		if utf8.RuneCountInString(content) > rules.maxContentLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentTooLong))
			return
		}

		if err := posts.Update(r.Context(), post.ID, content, input.ContainsSpoiler); err != nil {
			logx.Error(err, "Failed to update book post", "post_id", post.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		post.Content = content
		post.ContainsSpoiler = input.ContainsSpoiler
		resp.RespondSuccess(w, r, post)
	}
}

// HandleDeleteBookPost deletes the caller's own post.
func HandleDeleteBookPost(deps *AppDeps, posts *store.BookPosts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		post, err := posts.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}
		if post.AuthorID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotOwner))
			return
		}

		if err := posts.Delete(r.Context(), post.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "Failed to delete book post", "post_id", post.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"deleted": true})
	}
}

// HandleLikeBookPost toggles the caller's like on a post.
func HandleLikeBookPost(deps *AppDeps, posts *store.BookPosts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		liked, count, err := posts.ToggleLike(r.Context(), chi.URLParam(r, "id"), user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
				return
			}
			logx.Error(err, "Failed to toggle book post like")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"isLiked": liked, "likesCount": count})
	}
}
