package httpx

import (
	"errors"
	"net/http"

	"github.com/Ramani888/abwa-sub000/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var pending *shared.PaymentPendingError
	if errors.As(err, &pending) {
		// 207: the order was created, only the payment step failed.
		JSON(w, http.StatusMultiStatus, ProblemDetail{
			Title:   "Payment Pending",
			Status:  http.StatusMultiStatus,
			Detail:  shared.UserSafeMessage(err),
			OrderID: pending.OrderID,
		})
		return
	}

	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", shared.UserSafeMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
