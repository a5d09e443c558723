package adaptor

import (
	"net/http"
	"strings"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TripHandler struct {
	search usecase.SearchService
	trip   usecase.TripService
	log    *zap.Logger
}

func NewTripHandler(search usecase.SearchService, trip usecase.TripService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		search: search,
		trip:   trip,
		log:    log.With(zap.String("handler", "trip")),
	}
}

// SearchTrips handles GET /api/trips?from=&to=&date=YYYY-MM-DD
func (h *TripHandler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.SearchTripsRequest{
		From: strings.TrimSpace(query.Get("from")),
		To:   strings.TrimSpace(query.Get("to")),
		Date: strings.TrimSpace(query.Get("date")),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	journeyDate, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	trips, err := h.search.SearchTrips(r.Context(), req.From, req.To, journeyDate)
	if err != nil {
		handleServiceError(w, h.log, err, "search trips")
		return
	}

	utils.ResponseSuccess(w, "success", trips)
}

// GetTripDetails handles GET /api/trips/{id}
func (h *TripHandler) GetTripDetails(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	trip, err := h.trip.GetTripDetails(r.Context(), scheduleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get trip details")
		return
	}

	utils.ResponseSuccess(w, "success", trip)
}
