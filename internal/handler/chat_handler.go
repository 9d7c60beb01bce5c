/*
Package handler provides HTTP handler functions for direct-message
conversations and their message logs.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/app/chat"
	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/req"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

type OpenConversationInput struct {
	OtherUsername string `json:"otherUsername"`
}

type SendMessageInput struct {
	Text string `json:"text"`
}

// HandleListConversations returns the caller's conversations, most recently
// active first.
func HandleListConversations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		convs, err := deps.Chat.ListConversations(r.Context(), user.Username)
		if err != nil {
			logx.Error(err, "Failed to list conversations", "username", user.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"conversations": convs})
	}
}

// HandleOpenConversation finds or creates the conversation between the caller
// and otherUsername. The pair is unordered: both directions address the same
// record, and a concurrent first contact from both sides yields one record.
func HandleOpenConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input OpenConversationInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		other := strings.TrimSpace(input.OtherUsername)
		if other == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		conv, err := deps.Chat.FindOrCreateConversation(r.Context(), user.Username, other)
		if err != nil {
			if errors.Is(err, store.ErrSelfConversation) {
				resp.RespondError(w, r, errs.NewError(errs.ErrSelfConversation))
				return
			}
			logx.Error(err, "Failed to open conversation", "username", user.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, conv)
	}
}

// HandleListMessages returns a conversation's full message log in send order.
// Only participants may read it.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conv, customErr := loadParticipantConversation(r, deps, user.Username)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msgs, err := deps.Chat.ListMessages(r.Context(), conv.ID)
		if err != nil {
			logx.Error(err, "Failed to list messages", "conversation_id", conv.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"conversation": conv,
			"messages":     msgs,
		})
	}
}

// HandleSendMessage appends a message to the conversation. The sender must be
// a participant and the trimmed text must be non-empty and within the length
// cap. The store refreshes the conversation preview in the same transaction.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conv, customErr := loadParticipantConversation(r, deps, user.Username)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input SendMessageInput
		if bindErr := req.BindJSON(r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		text := strings.TrimSpace(input.Text)
		if text == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessageText))
			return
		}
		if len(text) > chat.MaxMessageTextBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageTooLong))
			return
		}

		msg, err := deps.Chat.AppendMessage(r.Context(), conv.ID, user.Username, text)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrConversationNotFound))
				return
			}
			logx.Error(err, "Failed to append message", "conversation_id", conv.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondCreated(w, r, msg)
	}
}

// loadParticipantConversation resolves the {id} URL parameter and enforces
// that username is one of the two participants.
func loadParticipantConversation(r *http.Request, deps *AppDeps, username string) (store.Conversation, *errs.CustomError) {
	id := chi.URLParam(r, "id")

	conv, err := deps.Chat.GetConversation(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Conversation{}, errs.NewError(errs.ErrConversationNotFound)
		}
		logx.Error(err, "Failed to load conversation", "conversation_id", id)
		return store.Conversation{}, errs.NewError(errs.ErrUnknown)
	}

	if !conv.HasParticipant(username) {
		return store.Conversation{}, errs.NewError(errs.ErrNotParticipant)
	}

	return conv, nil
}
