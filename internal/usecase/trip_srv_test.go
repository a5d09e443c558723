package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/apperror"
	"bus-booking/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
	err  error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	c.hits++
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func TestGetTripDetails_SeatMap(t *testing.T) {
	w := newWorld(t, 4)
	schedule := w.addSchedule(now.AddDate(0, 0, 1), entity.NewTimeOfDay(21, 0))
	w.addTicket(schedule, w.seats[0], entity.TicketStatusConfirmed)
	w.addTicket(schedule, w.seats[1], entity.TicketStatusPending)
	w.addTicket(schedule, w.seats[2], entity.TicketStatusCancelled)

	svc := usecase.NewTripService(w.store, cache.NopCache{}, zaptest.NewLogger(t))

	trip, err := svc.GetTripDetails(context.Background(), schedule.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Hanif", trip.CompanyName)
	assert.Equal(t, 4, trip.TotalSeats)
	assert.Equal(t, 2, trip.SeatsLeft)
	assert.Equal(t, []string{"Kalyanpur", "Sayedabad"}, trip.BoardingPoints)

	require.Len(t, trip.Seats, 4)
	want := []entity.SeatStatus{
		entity.SeatStatusBooked,
		entity.SeatStatusBooked,
		entity.SeatStatusAvailable,
		entity.SeatStatusAvailable,
	}
	for i, seat := range trip.Seats {
		assert.Equal(t, w.seats[i].SeatNumber, seat.SeatNumber)
		assert.Equal(t, want[i], seat.Status, seat.SeatNumber)
	}
}

func TestGetTripDetails_CachesLayoutNotStatuses(t *testing.T) {
	w := newWorld(t, 4)
	schedule := w.addSchedule(now.AddDate(0, 0, 1), entity.NewTimeOfDay(21, 0))
	layouts := newMapCache()
	svc := usecase.NewTripService(w.store, layouts, zaptest.NewLogger(t))
	ctx := context.Background()

	first, err := svc.GetTripDetails(ctx, schedule.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, layouts.hits)
	assert.Contains(t, layouts.data, "seats:"+w.bus.ID.String())

	w.addTicket(schedule, w.seats[3], entity.TicketStatusConfirmed)

	second, err := svc.GetTripDetails(ctx, schedule.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, layouts.hits)
	assert.Equal(t, entity.SeatStatusAvailable, first.Seats[3].Status)
	assert.Equal(t, entity.SeatStatusBooked, second.Seats[3].Status)
	assert.Equal(t, 3, second.SeatsLeft)
}

func TestGetTripDetails_CacheFailureFallsBackToStore(t *testing.T) {
	w := newWorld(t, 2)
	schedule := w.addSchedule(now.AddDate(0, 0, 1), entity.NewTimeOfDay(21, 0))
	layouts := newMapCache()
	layouts.err = errors.New("connection refused")
	svc := usecase.NewTripService(w.store, layouts, zaptest.NewLogger(t))

	trip, err := svc.GetTripDetails(context.Background(), schedule.ID.String())
	require.NoError(t, err)
	assert.Len(t, trip.Seats, 2)
	assert.Equal(t, 1, layouts.gets)
}

func TestGetTripDetails_Errors(t *testing.T) {
	w := newWorld(t, 1)
	svc := usecase.NewTripService(w.store, cache.NopCache{}, zaptest.NewLogger(t))

	_, err := svc.GetTripDetails(context.Background(), uuid.NewString())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.GetTripDetails(context.Background(), "abc")
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
}
