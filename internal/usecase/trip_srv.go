package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/apperror"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/metrics"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripService interface {
	// GetTripDetails returns the trip with its seat map. Seat statuses are
	// recomputed on every call; only the bus layout is cached.
	GetTripDetails(ctx context.Context, scheduleID string) (*response.TripDetailsResponse, error)
}

type tripService struct {
	store repository.Store
	cache cache.Cache
	log   *zap.Logger
}

func NewTripService(store repository.Store, layoutCache cache.Cache, log *zap.Logger) TripService {
	return &tripService{
		store: store,
		cache: layoutCache,
		log:   log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) GetTripDetails(ctx context.Context, scheduleID string) (*response.TripDetailsResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid schedule ID format %s", scheduleID)
	}

	schedule, err := s.store.FindScheduleDetails(ctx, id)
	if err != nil {
		s.log.Error("Failed to load schedule", zap.Error(err), zap.String("schedule_id", scheduleID))
		return nil, apperror.Ensure(apperror.KindUnavailable, err, "load schedule %s", scheduleID)
	}
	if schedule == nil {
		return nil, apperror.New(apperror.KindNotFound, "schedule %s not found", scheduleID)
	}

	seats, err := s.seatLayout(ctx, schedule.BusID)
	if err != nil {
		return nil, err
	}

	statuses := SeatStatuses(seats, schedule.Tickets)
	seatResponses := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		seatResponses[i] = response.SeatResponse{
			ID:         seat.ID.String(),
			SeatNumber: seat.SeatNumber,
			Row:        seat.Row,
			Column:     seat.Column,
			Status:     statuses[seat.ID],
		}
	}

	return &response.TripDetailsResponse{
		ScheduleID:     schedule.ID.String(),
		CompanyName:    schedule.Bus.CompanyName,
		BusName:        schedule.Bus.BusName,
		BusType:        schedule.Bus.BusType,
		TotalSeats:     schedule.Bus.TotalSeats,
		SeatsLeft:      SeatsLeft(schedule),
		FromCity:       schedule.Route.FromCity,
		ToCity:         schedule.Route.ToCity,
		JourneyDate:    schedule.JourneyDate.Format(utils.DateLayout),
		StartTime:      schedule.StartTime,
		ArrivalTime:    schedule.ArrivalTime,
		Price:          schedule.Price,
		BoardingPoints: schedule.Route.BoardingPoints,
		DroppingPoints: schedule.Route.DroppingPoints,
		Seats:          seatResponses,
	}, nil
}

func layoutKey(busID uuid.UUID) string {
	return "seats:" + busID.String()
}

// seatLayout reads the bus seats through the cache. Cache failures fall back
// to the store.
func (s *tripService) seatLayout(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	key := layoutKey(busID)

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var seats []*entity.Seat
		if err := json.Unmarshal(data, &seats); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return seats, nil
		}
		s.log.Warn("Discarding unreadable seat layout", zap.String("bus_id", busID.String()))
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("Seat layout cache unavailable", zap.Error(err), zap.String("bus_id", busID.String()))
	}

	seats, err := s.store.FindSeatsByBus(ctx, busID)
	if err != nil {
		s.log.Error("Failed to load seats", zap.Error(err), zap.String("bus_id", busID.String()))
		return nil, apperror.Ensure(apperror.KindUnavailable, err, "load seats for bus %s", busID.String())
	}

	if data, err := json.Marshal(seats); err == nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.log.Warn("Failed to cache seat layout", zap.Error(err), zap.String("bus_id", busID.String()))
		}
	}

	return seats, nil
}
