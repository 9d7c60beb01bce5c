/*
Package handler provides HTTP handler functions for book reviews.
*/
package handler

import (
	"errors"
	"math"
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

const maxReviewContentLen = 2000

type BookRefInput struct {
	BookKey  string `json:"bookKey"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"coverUrl"`
}

type CreateReviewInput struct {
	Book            BookRefInput `json:"book"`
	Content         string       `json:"content"`
	Rating          float64      `json:"rating"`
	ContainsSpoiler bool         `json:"containsSpoiler"`
}

type UpdateReviewInput struct {
	Content         string  `json:"content"`
	Rating          float64 `json:"rating"`
	ContainsSpoiler bool    `json:"containsSpoiler"`
}

// validRating accepts 0.5 through 5 in half-step increments.
func validRating(rating float64) bool {
	if rating < 0.5 || rating > 5 {
		return false
	}
	doubled := rating * 2
	return doubled == math.Trunc(doubled)
}

// reviewResponse decorates a review with the caller's like state.
func reviewResponse(rv store.Review, viewerID string) map[string]any {
	return map[string]any{
		"review":  rv,
		"isLiked": rv.IsLikedBy(viewerID),
	}
}

// HandleCreateReview creates a review. One review per author per book; a
// duplicate is rejected with a validation error.
func HandleCreateReview(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateReviewInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentRequired))
			return
		}
		if utf8.RuneCountInString(content) > maxReviewContentLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentTooLong))
			return
		}
		if !validRating(input.Rating) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRatingInvalid))
			return
		}
		if strings.TrimSpace(input.Book.BookKey) == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrBookInfoRequired))
			return
		}

		review, err := deps.Reviews.Create(r.Context(), store.Review{
			AuthorID: user.ID,
			Book: store.BookRef{
				BookKey:  strings.TrimSpace(input.Book.BookKey),
				Title:    strings.TrimSpace(input.Book.Title),
				Author:   strings.TrimSpace(input.Book.Author),
				CoverURL: strings.TrimSpace(input.Book.CoverURL),
			},
			Content:         content,
			Rating:          input.Rating,
			ContainsSpoiler: input.ContainsSpoiler,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrDuplicateReview))
				return
			}
			logx.Error(err, "Failed to create review", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		review.AuthorUsername = user.Username
		review.AuthorAvatarKey = user.AvatarKey
		resp.RespondCreated(w, r, review)
	}
}

// HandleListReviews returns a page of reviews. Optional bookKey and author
// query parameters narrow the listing.
func HandleListReviews(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)
		page, limit := pageParams(r)
		query := r.URL.Query()

		var (
			reviews []store.Review
			total   int
			err     error
		)

		switch {
		case query.Get("bookKey") != "":
			reviews, total, err = deps.Reviews.ListByBook(r.Context(), query.Get("bookKey"), page, limit)
		case query.Get("author") != "":
			var author store.User
			author, err = deps.Users.GetByUsername(r.Context(), query.Get("author"))
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			reviews, total, err = deps.Reviews.ListByAuthor(r.Context(), author.ID, page, limit)
		default:
			reviews, total, err = deps.Reviews.List(r.Context(), page, limit)
		}

		if err != nil {
			logx.Error(err, "Failed to list reviews")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		items := make([]map[string]any, 0, len(reviews))
		for _, rv := range reviews {
			items = append(items, reviewResponse(rv, user.ID))
		}
		resp.RespondSuccess(w, r, pagedResponse("reviews", items, page, limit, total))
	}
}

// HandleGetReview returns one review.
func HandleGetReview(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)

		review, err := deps.Reviews.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}

		resp.RespondSuccess(w, r, reviewResponse(review, user.ID))
	}
}

// HandleUpdateReview edits the caller's own review.
func HandleUpdateReview(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		review, err := deps.Reviews.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}
		if review.AuthorID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotOwner))
			return
		}

		var input UpdateReviewInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentRequired))
			return
		}
		if utf8.RuneCountInString(content) > maxReviewContentLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentTooLong))
			return
		}
		if !validRating(input.Rating) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRatingInvalid))
			return
		}

		if err := deps.Reviews.Update(r.Context(), review.ID, content, input.Rating, input.ContainsSpoiler); err != nil {
			logx.Error(err, "Failed to update review", "review_id", review.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		review.Content = content
		review.Rating = input.Rating
		review.ContainsSpoiler = input.ContainsSpoiler
		resp.RespondSuccess(w, r, review)
	}
}

// HandleDeleteReview deletes the caller's own review.
func HandleDeleteReview(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		review, err := deps.Reviews.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
			return
		}
		if review.AuthorID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotOwner))
			return
		}

		if err := deps.Reviews.Delete(r.Context(), review.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "Failed to delete review", "review_id", review.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"deleted": true})
	}
}

// HandleLikeReview toggles the caller's like on a review.
func HandleLikeReview(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		liked, count, err := deps.Reviews.ToggleLike(r.Context(), chi.URLParam(r, "id"), user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrResourceNotFound))
				return
			}
			logx.Error(err, "Failed to toggle review like")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"isLiked": liked, "likesCount": count})
	}
}
