package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"stockroom-backend/api/responses"
	"stockroom-backend/api/validators"
	"stockroom-backend/internal/users"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

type registerUserRequest struct {
	UserID    int64   `json:"user_id" validate:"required,gt=0"`
	Username  *string `json:"username"`
	FirstName string  `json:"first_name"`
}

// UserRegister upserts a chat contact. Repeat calls refresh the profile.
func UserRegister(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		var payload registerUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), payload.UserID)
		user, err := repo.Upsert(ctx, users.ContactDTO{
			UserID:    payload.UserID,
			Username:  payload.Username,
			FirstName: payload.FirstName,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registering user"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
		})
	}
}

// UserGet looks up a registered contact by its external chat id.
func UserGet(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "userID must be a positive integer"))
			return
		}

		ctx := logg.WithUserID(r.Context(), id)
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user is not registered"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
		})
	}
}

// UsersList returns every registered contact, oldest first.
func UsersList(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		contacts, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users"))
			return
		}

		payload := make([]map[string]any, 0, len(contacts))
		for _, user := range contacts {
			payload = append(payload, map[string]any{
				"id":         user.ID,
				"username":   user.Username,
				"first_name": user.FirstName,
			})
		}
		responses.WriteSuccess(w, map[string]any{"users": payload})
	}
}
