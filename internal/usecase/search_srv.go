package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/apperror"
	"bus-booking/pkg/metrics"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type SearchService interface {
	// SearchTrips lists trips on the city pair for the UTC calendar date of
	// journeyDate that still have seats, earliest departure first.
	SearchTrips(ctx context.Context, from, to string, journeyDate time.Time) ([]response.AvailableTripResponse, error)
}

type searchService struct {
	store repository.Store
	clock utils.Clock
	log   *zap.Logger
}

func NewSearchService(store repository.Store, clock utils.Clock, log *zap.Logger) SearchService {
	return &searchService{
		store: store,
		clock: clock,
		log:   log.With(zap.String("service", "search")),
	}
}

func (s *searchService) SearchTrips(ctx context.Context, from, to string, journeyDate time.Time) ([]response.AvailableTripResponse, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "from and to cities are required")
	}

	now := s.clock.Now().UTC()
	today := entity.DateOf(now)
	day := entity.CalendarDate(journeyDate)
	if day.Before(today) {
		return nil, apperror.New(apperror.KindInvalidArgument, "journey date %s is in the past", day.Format(utils.DateLayout))
	}

	schedules, err := s.store.FindSchedules(ctx, from, to, day)
	if err != nil {
		s.log.Error("Failed to find schedules",
			zap.Error(err),
			zap.String("from", from),
			zap.String("to", to),
			zap.Time("date", day),
		)
		return nil, apperror.Ensure(apperror.KindUnavailable, err, "search trips")
	}

	sameDay := day.Equal(today)
	cutoff := entity.TimeOfDayOf(now)

	results := make([]response.AvailableTripResponse, 0, len(schedules))
	for _, schedule := range schedules {
		// Trips already departed today are not offered.
		if sameDay && schedule.StartTime <= cutoff {
			continue
		}

		left := SeatsLeft(schedule)
		if left <= 0 {
			continue
		}

		results = append(results, response.ScheduleToAvailableTrip(schedule, left))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StartTime < results[j].StartTime
	})

	s.log.Debug("Trips searched",
		zap.String("from", from),
		zap.String("to", to),
		zap.Time("date", day),
		zap.Int("candidates", len(schedules)),
		zap.Int("results", len(results)),
	)

	return results, nil
}
