package controllers

import (
	"net/http"

	"stockroom-backend/api/responses"
	"stockroom-backend/api/validators"
	"stockroom-backend/internal/archive"
	commitsvc "stockroom-backend/internal/commit"
	"stockroom-backend/internal/export"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

type commitRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type commitResponse struct {
	*commitsvc.Result
	ExportPath  string `json:"export_path,omitempty"`
	SurplusPath string `json:"surplus_path,omitempty"`
}

// WorklistCommit commits the caller's working list and renders the
// resulting spreadsheets. The commit itself is durable once the service
// returns; a failed export only loses the artifact file, so it is logged
// and the response still carries the split.
func WorklistCommit(svc commitsvc.Service, writer *export.Writer, archiveRepo *archive.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commit service unavailable"))
			return
		}

		var payload commitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), payload.UserID)
		result, err := svc.Commit(ctx, payload.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		response := commitResponse{Result: result}

		if writer != nil && result.ArchiveID != nil {
			lines := make([]export.Line, 0, len(result.Fulfillable))
			for _, line := range result.Fulfillable {
				lines = append(lines, export.Line{Article: line.Article, Quantity: line.Quantity})
			}
			path, werr := writer.WriteLines(result.FileName, lines)
			if werr != nil {
				logg.Error(ctx, "exporting commit spreadsheet", werr)
			} else {
				response.ExportPath = path
				if archiveRepo != nil {
					if uerr := archiveRepo.UpdateFilePath(ctx, *result.ArchiveID, path); uerr != nil {
						logg.Error(ctx, "recording export path", uerr)
					}
				}
			}
		}

		if writer != nil && len(result.Surplus) > 0 && result.FileName != "" {
			lines := make([]export.Line, 0, len(result.Surplus))
			for _, line := range result.Surplus {
				lines = append(lines, export.Line{Article: line.Article, Quantity: line.Quantity})
			}
			path, werr := writer.WriteLines(export.SurplusPrefix+result.FileName, lines)
			if werr != nil {
				logg.Error(ctx, "exporting surplus spreadsheet", werr)
			} else {
				response.SurplusPath = path
			}
		}

		responses.WriteSuccess(w, response)
	}
}
