package controllers

import (
	"net/http"
	"strconv"

	"github.com/angelmondragon/pharmaline-backend/api/responses"
	"github.com/angelmondragon/pharmaline-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/pharmaline-backend/pkg/errors"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
)

// AdminInventory handles GET /api/admin/v1/inventory.
func AdminInventory(agg inventory.Aggregator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summaries, err := agg.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": summaries})
	}
}

// AdminLowStock handles GET /api/admin/v1/inventory/low-stock. The optional
// threshold query parameter defaults to the interpreter's LOW_STOCK default.
func AdminLowStock(agg inventory.Aggregator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		threshold := inventory.DefaultLowStockThreshold
		if raw := r.URL.Query().Get("threshold"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "threshold must be a non-negative integer"))
				return
			}
			threshold = parsed
		}

		low, err := agg.ListLowStock(ctx, threshold)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"threshold": threshold, "items": low})
	}
}
