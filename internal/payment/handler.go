package payment

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Ramani888/abwa-sub000/internal/platform/httpx"
	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// Handler exposes payment ledger endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Get("/", h.list)
}

type createPaymentRequest struct {
	CounterpartyID   int64     `json:"counterparty_id" validate:"required"`
	CounterpartyType string    `json:"counterparty_type" validate:"required,oneof=customer supplier"`
	Amount           float64   `json:"amount" validate:"required,gt=0"`
	PaymentType      string    `json:"payment_type" validate:"required,oneof=advance full partial"`
	PaymentMode      Mode      `json:"payment_mode"`
	RefOrderID       *int64    `json:"ref_order_id,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CaptureDate      time.Time `json:"capture_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "malformed JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec, err := h.service.Create(r.Context(), CreateInput{
		CounterpartyID:   req.CounterpartyID,
		CounterpartyType: CounterpartyType(req.CounterpartyType),
		Amount:           req.Amount,
		PaymentType:      Type(req.PaymentType),
		PaymentMode:      req.PaymentMode,
		RefOrderID:       req.RefOrderID,
		Notes:            req.Notes,
		CaptureDate:      req.CaptureDate,
	})
	if err != nil {
		h.logger.Error("create payment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

type updatePaymentRequest struct {
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	PaymentType string    `json:"payment_type" validate:"required,oneof=advance full partial"`
	PaymentMode Mode      `json:"payment_mode"`
	Notes       string    `json:"notes,omitempty"`
	CaptureDate time.Time `json:"capture_date"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("id", "must be an integer"))
		return
	}

	var req updatePaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "malformed JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec, err := h.service.Update(r.Context(), id, UpdateInput{
		Amount:      req.Amount,
		PaymentType: Type(req.PaymentType),
		PaymentMode: req.PaymentMode,
		Notes:       req.Notes,
		CaptureDate: req.CaptureDate,
	})
	if err != nil {
		h.logger.Error("update payment", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctype := CounterpartyType(r.URL.Query().Get("counterparty_type"))
	counterpartyID, err := strconv.ParseInt(r.URL.Query().Get("counterparty_id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("counterparty_id", "must be an integer"))
		return
	}

	records, err := h.service.ListForCounterparty(r.Context(), ctype, counterpartyID)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": records})
}
