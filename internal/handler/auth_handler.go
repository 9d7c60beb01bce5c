/*
Package handler provides HTTP handler functions for account signup and login.
*/
package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/randx"
	"inkwell/internal/pkg/req"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

const (
	minUsernameLen = 5
	minPasswordLen = 6
)

type SignupInput struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the credential payload returned by both signup and login.
func authResponse(u store.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"token":    u.Token,
		"username": u.Username,
	}
}

// HandleSignup processes the request to create a new account. It validates the
// input, rejects duplicate email or username, hashes the password, and issues
// the opaque bearer token stored on the account row.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Email = strings.TrimSpace(strings.ToLower(input.Email))
		input.Fullname = strings.TrimSpace(input.Fullname)
		input.Username = strings.TrimSpace(input.Username)

		if input.Email == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmailRequired))
			return
		}
		if _, err := mail.ParseAddress(input.Email); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if input.Fullname == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrFullnameRequired))
			return
		}
		if utf8.RuneCountInString(input.Username) < minUsernameLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}
		if utf8.RuneCountInString(input.Password) < minPasswordLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		if _, err := deps.Users.GetByEmail(r.Context(), input.Email); err == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmailTaken))
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "Signup: email lookup failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if _, err := deps.Users.GetByUsername(r.Context(), input.Username); err == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUsernameTaken))
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "Signup: username lookup failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			logx.Error(err, "Signup: password hashing failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := randx.AccountToken()
		if err != nil {
			logx.Error(err, "Signup: token generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		user := store.User{
			ID:           randx.ID(),
			Email:        input.Email,
			Username:     input.Username,
			Fullname:     input.Fullname,
			Token:        token,
			PasswordHash: string(hashedPassword),
		}

		if err := deps.Users.Create(r.Context(), user); err != nil {
			// Duplicate slipped in between the lookups and the insert.
			if store.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUsernameTaken))
				return
			}
			logx.Error(err, "Signup: failed to create account")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Account created", "user_id", user.ID, "username", user.Username)
		resp.RespondCreated(w, r, authResponse(user))
	}
}

// HandleLogin verifies the email/password pair and returns the stored bearer
// token. Unknown email and wrong password produce the same error.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Email = strings.TrimSpace(strings.ToLower(input.Email))

		user, err := deps.Users.GetByEmail(r.Context(), input.Email)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logx.Error(err, "Login: email lookup failed")
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		resp.RespondSuccess(w, r, authResponse(user))
	}
}
