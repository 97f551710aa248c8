package ledger

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/platform/httpx"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// Handler exposes balance endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers balance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{counterpartyType}/{id}", h.balance)
	r.Post("/{counterpartyType}/{id}/refresh", h.refresh)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	ctype, id, err := parseCounterparty(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	view, err := h.service.Balance(r.Context(), ctype, id)
	if err != nil {
		h.logger.Error("get balance", slog.Any("error", err),
			slog.String("counterparty_type", string(ctype)), slog.Int64("counterparty_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctype, id, err := parseCounterparty(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.service.Refresh(r.Context(), ctype, id); err != nil {
		h.logger.Error("refresh balance", slog.Any("error", err),
			slog.String("counterparty_type", string(ctype)), slog.Int64("counterparty_id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func parseCounterparty(r *http.Request) (payment.CounterpartyType, int64, error) {
	ctype := payment.CounterpartyType(chi.URLParam(r, "counterpartyType"))
	if !ctype.Valid() {
		return "", 0, shared.NewValidationError("counterparty_type", "must be customer or supplier")
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return "", 0, shared.NewValidationError("id", "must be an integer")
	}
	return ctype, id, nil
}
