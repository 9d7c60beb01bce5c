/*
Package handler provides HTTP handler functions for profile viewing and editing.
*/
package handler

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/randx"
	"inkwell/internal/pkg/req"
	"inkwell/internal/pkg/resp"
	"inkwell/internal/store"
)

const (
	avatarPresignExpiry  = 15 * time.Minute
	avatarDownloadExpiry = 24 * time.Hour
	maxAvatarSize        = 5 << 20
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// profileResponse is the public profile shape. Token and password hash stay
// server-side.
func profileResponse(u store.User) map[string]any {
	var birth *string
	if u.Birth != nil {
		b := u.Birth.Format("2006-01-02")
		birth = &b
	}

	return map[string]any{
		"id":       u.ID,
		"email":    u.Email,
		"username": u.Username,
		"fullname": u.Fullname,
		"avatar":   u.AvatarKey,
		"favoriteBooks": []map[string]string{
			{"title": u.FirstBookTitle, "author": u.FirstBookAuthor},
			{"title": u.SecondBookTitle, "author": u.SecondBookAuthor},
		},
		"readingStyles": []string{u.FirstStyle, u.SecondStyle, u.ThirdStyle},
		"birth":         birth,
		"genre":         u.Genre,
		"country":       u.Country,
		"city":          u.City,
		"description":   u.Description,
		"createdAt":     u.CreatedAt,
	}
}

// HandleGetProfile returns the authenticated caller's profile.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		counts, err := deps.Follows.Counts(r.Context(), user.ID)
		if err != nil {
			logx.Error(err, "Profile: failed to load follow counts", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		data := profileResponse(user)
		data["followersCount"] = counts.Followers
		data["followingCount"] = counts.Following
		resp.RespondSuccess(w, r, data)
	}
}

// HandleGetUserByUsername returns another user's public profile.
func HandleGetUserByUsername(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		user, err := deps.Users.GetByUsername(r.Context(), username)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		data := profileResponse(user)
		delete(data, "email")
		resp.RespondSuccess(w, r, data)
	}
}

// UpdateProfileInput carries the editable profile fields. Pointer fields
// distinguish "not sent" from "cleared".
type UpdateProfileInput struct {
	Fullname         *string `json:"fullname"`
	FirstBookTitle   *string `json:"firstBookTitle"`
	FirstBookAuthor  *string `json:"firstBookAuthor"`
	SecondBookTitle  *string `json:"secondBookTitle"`
	SecondBookAuthor *string `json:"secondBookAuthor"`
	FirstStyle       *string `json:"firstStyle"`
	SecondStyle      *string `json:"secondStyle"`
	ThirdStyle       *string `json:"thirdStyle"`
	Birth            *string `json:"birth"`
	Genre            *string `json:"genre"`
	Country          *string `json:"country"`
	City             *string `json:"city"`
	Description      *string `json:"description"`
}

// HandleUpdateProfile applies a partial update to the caller's profile.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		applyString := func(dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}

		applyString(&user.Fullname, input.Fullname)
		applyString(&user.FirstBookTitle, input.FirstBookTitle)
		applyString(&user.FirstBookAuthor, input.FirstBookAuthor)
		applyString(&user.SecondBookTitle, input.SecondBookTitle)
		applyString(&user.SecondBookAuthor, input.SecondBookAuthor)
		applyString(&user.FirstStyle, input.FirstStyle)
		applyString(&user.SecondStyle, input.SecondStyle)
		applyString(&user.ThirdStyle, input.ThirdStyle)
		applyString(&user.Genre, input.Genre)
		applyString(&user.Country, input.Country)
		applyString(&user.City, input.City)
		applyString(&user.Description, input.Description)

		if input.Birth != nil {
			if *input.Birth == "" {
				user.Birth = nil
			} else {
				birth, err := time.Parse("2006-01-02", *input.Birth)
				if err != nil {
					resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
					return
				}
				user.Birth = &birth
			}
		}

		if err := deps.Users.Update(r.Context(), user); err != nil {
			logx.Error(err, "Profile update failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, profileResponse(user))
	}
}

type PresignAvatarInput struct {
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatar returns a presigned URL the client PUTs the avatar to,
// plus the storage key to submit back on the profile.
func HandlePresignAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ext, allowed := allowedAvatarTypes[input.MimeType]
		if !allowed || input.FileSize <= 0 || input.FileSize > maxAvatarSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		key := fmt.Sprintf("avatars/%s/%s%s", user.ID, randx.ID(), ext)

		url, err := deps.StorageService.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, avatarPresignExpiry)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": url,
			"key":       key,
			"expiresIn": int(avatarPresignExpiry.Seconds()),
		})
	}
}

// HandleUploadAvatar accepts a multipart avatar upload server-side, streams it
// to object storage, and records the new key on the profile. Kept for clients
// that cannot use the presigned flow.
func HandleUploadAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}
		defer file.Close()

		mimeType := header.Header.Get("Content-Type")
		ext, allowed := allowedAvatarTypes[mimeType]
		if !allowed || header.Size > maxAvatarSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		key := path.Join("avatars", user.ID, randx.ID()+ext)

		if err := deps.StorageService.Upload(r.Context(), key, mimeType, file); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		oldKey := user.AvatarKey
		user.AvatarKey = key
		if err := deps.Users.Update(r.Context(), user); err != nil {
			logx.Error(err, "Avatar key update failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if oldKey != "" {
			if err := deps.StorageService.Delete(r.Context(), oldKey); err != nil {
				logx.Warn("Failed to delete replaced avatar", "key", oldKey)
			}
		}

		resp.RespondSuccess(w, r, map[string]any{"avatar": key})
	}
}

// HandleAvatarDownloadURL returns a presigned download URL for a stored avatar key.
func HandleAvatarDownloadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.URL.Query().Get("key"))
		if key == "" || !strings.HasPrefix(key, "avatars/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), key, avatarDownloadExpiry)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"downloadUrl": url})
	}
}
