package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler) {
	r.Route("/api/tickets", func(r chi.Router) {
		r.Post("/", ticketHandler.ReserveSeat)
		r.Post("/batch", ticketHandler.ReserveSeats)

		r.Get("/{id}", ticketHandler.GetTicket)
		r.Put("/{id}/cancel", ticketHandler.CancelTicket)
		r.Put("/{id}/confirm", ticketHandler.ConfirmTicket)
	})
}
