package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"stockroom-backend/api/responses"
	"stockroom-backend/api/validators"
	"stockroom-backend/internal/catalog"
	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

type productResponse struct {
	ID         string `json:"id"`
	Article    string `json:"article"`
	Name       string `json:"name"`
	Department int    `json:"department"`
	GroupLabel string `json:"group_label,omitempty"`
	Available  string `json:"available"`
	IsActive   bool   `json:"is_active"`
}

func newProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:         p.ID.String(),
		Article:    p.Article,
		Name:       p.Name,
		Department: p.Department,
		GroupLabel: p.GroupLabel,
		Available:  catalog.Available(p.StockQty, p.Reserved).String(),
		IsActive:   p.IsActive,
	}
}

// ProductsSearch matches products by article or name substring.
func ProductsSearch(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := repo.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching products"))
			return
		}

		out := make([]productResponse, 0, len(found))
		for i := range found {
			out = append(out, newProductResponse(&found[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductGet loads a single product by id.
func ProductGet(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := repo.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product"))
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}
