package usecase

import (
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/events"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Search  SearchService
	Trip    TripService
	Booking BookingService
}

// Deps groups the collaborators shared by all services.
type Deps struct {
	Store     repository.Store
	Clock     utils.Clock
	Publisher events.Publisher
	Cache     cache.Cache
}

func NewService(deps Deps, config *utils.Config, log *zap.Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Cache == nil {
		deps.Cache = cache.NopCache{}
	}

	return &Service{
		Search:  NewSearchService(deps.Store, deps.Clock, log),
		Trip:    NewTripService(deps.Store, deps.Cache, log),
		Booking: NewBookingService(deps.Store, deps.Clock, deps.Publisher, config.Booking, log),
	}
}
