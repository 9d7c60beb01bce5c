/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: Request Validation Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrEmptyMessageText:    {Code: ErrEmptyMessageText, Message: "Message text is required.", Status: http.StatusBadRequest},
	ErrSelfConversation:    {Code: ErrSelfConversation, Message: "You cannot start a conversation with yourself.", Status: http.StatusBadRequest},
	ErrMessageTooLong:      {Code: ErrMessageTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrContentTooLong:      {Code: ErrContentTooLong, Message: "Content is too long.", Status: http.StatusBadRequest},
	ErrContentRequired:     {Code: ErrContentRequired, Message: "Content is required.", Status: http.StatusBadRequest},
	ErrRatingInvalid:       {Code: ErrRatingInvalid, Message: "The rating must be between 0.5 and 5, in half steps.", Status: http.StatusBadRequest},
	ErrBookInfoRequired:    {Code: ErrBookInfoRequired, Message: "Book information (bookKey) is required.", Status: http.StatusBadRequest},
	ErrDuplicateReview:     {Code: ErrDuplicateReview, Message: "You have already submitted a review for this book.", Status: http.StatusBadRequest},
	ErrDuplicateFavorite:   {Code: ErrDuplicateFavorite, Message: "This book is already in your favorites.", Status: http.StatusBadRequest},
	ErrSelfFollow:          {Code: ErrSelfFollow, Message: "You cannot follow yourself.", Status: http.StatusBadRequest},
	ErrSearchQueryRequired: {Code: ErrSearchQueryRequired, Message: "The search parameter 'q' is required.", Status: http.StatusBadRequest},

	// 2xxx: Authentication and Authorization Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrNotParticipant:     {Code: ErrNotParticipant, Message: "Unauthorized.", Status: http.StatusUnauthorized},
	ErrNotOwner:           {Code: ErrNotOwner, Message: "You do not own this resource.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Check email or password.", Status: http.StatusUnauthorized},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Invalid username.", Status: http.StatusForbidden},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password.", Status: http.StatusForbidden},
	ErrEmailTaken:         {Code: ErrEmailTaken, Message: "Check email or password.", Status: http.StatusUnauthorized},
	ErrUsernameTaken:      {Code: ErrUsernameTaken, Message: "Username unavailable.", Status: http.StatusUnauthorized},
	ErrEmailRequired:      {Code: ErrEmailRequired, Message: "An email is needed.", Status: http.StatusForbidden},
	ErrFullnameRequired:   {Code: ErrFullnameRequired, Message: "A name is needed.", Status: http.StatusForbidden},

	// 3xxx: Not Found Errors
	ErrConversationNotFound: {Code: ErrConversationNotFound, Message: "Conversation not found.", Status: http.StatusNotFound},
	ErrResourceNotFound:     {Code: ErrResourceNotFound, Message: "Not found.", Status: http.StatusNotFound},
	ErrUserNotFound:         {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown:        {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrUpstreamFailed: {Code: ErrUpstreamFailed, Message: "Book search is temporarily unavailable.", Status: http.StatusInternalServerError},
	ErrStorageFailed:  {Code: ErrStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
