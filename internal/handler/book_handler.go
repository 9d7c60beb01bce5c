/*
Package handler provides HTTP handler functions for catalog search.
*/
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/resp"
)

// HandleSearchBooks proxies the catalog search. Multi-volume bundles are
// filtered out by the books client before the page is returned.
func HandleSearchBooks(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, _ := strconv.Atoi(query.Get("page"))
		limit, _ := strconv.Atoi(query.Get("limit"))

		result, err := deps.Books.Search(r.Context(), query.Get("q"), page, limit)
		if err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// HandleGetBook fetches one work's detail record from the catalog.
func HandleGetBook(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workKey := "/works/" + chi.URLParam(r, "key")

		work, err := deps.Books.GetWork(r.Context(), workKey)
		if err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, work)
	}
}

// asCustomError passes through CustomError values and wraps anything else as
// an unknown internal error.
func asCustomError(err error) *errs.CustomError {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return customErr
	}
	return errs.NewError(errs.ErrUnknown, err)
}
