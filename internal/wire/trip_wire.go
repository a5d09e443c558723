package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTrip(r chi.Router, tripHandler *adaptor.TripHandler) {
	r.Route("/api/trips", func(r chi.Router) {
		// GET /api/trips?from=Dhaka&to=Chittagong&date=2026-11-02
		r.Get("/", tripHandler.SearchTrips)

		// GET /api/trips/{id} - trip with seat map
		r.Get("/{id}", tripHandler.GetTripDetails)
	})
}
