/*
Package handler provides HTTP handler functions for the mailbox (letters to the editors).
*/
package handler

import (
	"net/http"
	"strings"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/req"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

type CreateMailInput struct {
	Content string `json:"content"`
}

// HandleCreateMail records a mailbox submission.
func HandleCreateMail(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateMailInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrContentRequired))
			return
		}

		entry, err := deps.Mail.Create(r.Context(), store.MailEntry{
			AuthorID: user.ID,
			Content:  content,
		})
		if err != nil {
			logx.Error(err, "Failed to create mail entry", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		entry.AuthorUsername = user.Username
		resp.RespondCreated(w, r, entry)
	}
}

// HandleListMail returns all mailbox submissions, most recent first.
func HandleListMail(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.Mail.List(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list mail entries")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"mail": entries})
	}
}
