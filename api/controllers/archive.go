package controllers

import (
	"net/http"

	"stockroom-backend/api/responses"
	"stockroom-backend/api/validators"
	archivesvc "stockroom-backend/internal/archive"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

// ArchiveList returns the caller's commit history, newest first.
func ArchiveList(svc archivesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "archive service unavailable"))
			return
		}

		userID, err := validators.ParseUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), userID)
		archives, err := svc.ListByUser(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, archives)
	}
}

// ArchiveUsers lists user ids that own at least one archive.
func ArchiveUsers(svc archivesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "archive service unavailable"))
			return
		}

		ids, err := svc.UsersWithArchives(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user_ids": ids})
	}
}
