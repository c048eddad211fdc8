package controllers

import (
	"net/http"

	"stockroom-backend/api/responses"
	"stockroom-backend/internal/catalog"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

const maxImportSize = 32 << 20 // 32 MiB

// CatalogImport ingests a warehouse spreadsheet and reconciles the catalog.
func CatalogImport(importer *catalog.Importer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if importer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "importer unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		report, err := importer.Import(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ReservationsClear resets every reservation counter. Administrative
// escape hatch, never part of the commit path.
func ReservationsClear(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		affected, err := repo.ClearAllReservations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing reservations"))
			return
		}

		logg.Info(logg.WithFields(r.Context(), map[string]any{"cleared": affected}), "reservations cleared")
		responses.WriteSuccess(w, map[string]int64{"cleared": affected})
	}
}
