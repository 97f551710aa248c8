package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ramani888/abwa-sub000/internal/platform/httpx"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// Handler exposes catalog read endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/variants/{id}", h.getVariant)
	r.Get("/products/{productID}/variants", h.listVariants)
}

func (h *Handler) getVariant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("id", "must be an integer"))
		return
	}

	variant, err := h.service.GetVariant(r.Context(), id)
	if err != nil {
		h.logger.Error("get variant", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, variant)
}

func (h *Handler) listVariants(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("productID", "must be an integer"))
		return
	}

	variants, err := h.service.ListVariants(r.Context(), productID)
	if err != nil {
		h.logger.Error("list variants", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"variants": variants})
}
