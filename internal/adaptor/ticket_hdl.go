package adaptor

import (
	"encoding/json"
	"net/http"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.BookingService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// ReserveSeat handles POST /api/tickets
func (h *TicketHandler) ReserveSeat(w http.ResponseWriter, r *http.Request) {
	var req request.ReserveSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, err := h.service.ReserveSeat(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve seat")
		return
	}

	utils.ResponseCreated(w, "success", ticket)
}

// ReserveSeats handles POST /api/tickets/batch.
// 201 when every seat was booked, 207 when some were, 409 when none were.
func (h *TicketHandler) ReserveSeats(w http.ResponseWriter, r *http.Request) {
	var req request.ReserveSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.ReserveSeats(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve seats")
		return
	}

	switch {
	case len(result.Failed) == 0:
		utils.ResponseCreated(w, "success", result)
	case len(result.Tickets) == 0:
		utils.ResponseJSON(w, http.StatusConflict, false, "no seats could be reserved", result, nil)
	default:
		utils.ResponseMultiStatus(w, "some seats could not be reserved", result)
	}
}

// GetTicket handles GET /api/tickets/{id}
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")

	ticket, err := h.service.GetTicket(r.Context(), ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// CancelTicket handles PUT /api/tickets/{id}/cancel
func (h *TicketHandler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")

	ticket, err := h.service.CancelTicket(r.Context(), ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel ticket")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// ConfirmTicket handles PUT /api/tickets/{id}/confirm
func (h *TicketHandler) ConfirmTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")

	ticket, err := h.service.ConfirmTicket(r.Context(), ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm ticket")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}
