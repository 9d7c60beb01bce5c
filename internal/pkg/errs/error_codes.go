/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in responses to clients.
*/
package errs

// 1xxx: Request Validation Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrEmptyMessageText indicates a chat message with empty or whitespace-only text.
	ErrEmptyMessageText = 1101

	// ErrSelfConversation indicates an attempt to open a conversation with oneself.
	ErrSelfConversation = 1102

	// ErrMessageTooLong indicates that message text exceeded the maximum length.
	ErrMessageTooLong = 1103

	// ErrContentTooLong indicates that post content exceeded the maximum length for its kind.
	ErrContentTooLong = 1104

	// ErrContentRequired indicates that required post content was missing.
	ErrContentRequired = 1105

	// ErrRatingInvalid indicates a review rating outside 0.5..5 or not a half-step multiple.
	ErrRatingInvalid = 1106

	// ErrBookInfoRequired indicates that the book subrecord (bookKey) was missing.
	ErrBookInfoRequired = 1107

	// ErrDuplicateReview indicates the author already reviewed this book.
	ErrDuplicateReview = 1108

	// ErrDuplicateFavorite indicates the book is already in the user's favorites.
	ErrDuplicateFavorite = 1109

	// ErrSelfFollow indicates an attempt to follow oneself.
	ErrSelfFollow = 1110

	// ErrSearchQueryRequired indicates that the book search parameter 'q' was missing.
	ErrSearchQueryRequired = 1111
)

// 2xxx: Authentication and Authorization Errors
const (
	// ErrUnauthorized indicates a missing or unresolvable credential token.
	ErrUnauthorized = 2001

	// ErrNotParticipant indicates the caller is not a participant of the addressed conversation.
	ErrNotParticipant = 2002

	// ErrNotOwner indicates the caller does not own the addressed resource.
	ErrNotOwner = 2003

	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = 2004

	// ErrInvalidUsername indicates a signup username that failed validation.
	ErrInvalidUsername = 2005

	// ErrInvalidPassword indicates a signup password that failed validation.
	ErrInvalidPassword = 2006

	// ErrEmailTaken indicates the signup email is already registered.
	ErrEmailTaken = 2007

	// ErrUsernameTaken indicates the signup username is already registered.
	ErrUsernameTaken = 2008

	// ErrEmailRequired indicates a signup without an email address.
	ErrEmailRequired = 2009

	// ErrFullnameRequired indicates a signup without a full name.
	ErrFullnameRequired = 2010
)

// 3xxx: Not Found Errors
const (
	// ErrConversationNotFound indicates the referenced conversation does not exist.
	ErrConversationNotFound = 3001

	// ErrResourceNotFound indicates a generic referenced entity does not exist.
	ErrResourceNotFound = 3002

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = 3003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrUpstreamFailed indicates a failure calling the external book-metadata API.
	ErrUpstreamFailed = 5001

	// ErrStorageFailed indicates a failure talking to the object storage service.
	ErrStorageFailed = 5002
)
