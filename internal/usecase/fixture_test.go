package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/pkg/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// 2026-11-02 10:00 UTC
var now = time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type recordedEvent struct {
	topic string
	event events.TicketEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event events.TicketEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{topic: topic, event: event})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.topic
	}
	return out
}

type world struct {
	t           *testing.T
	store       *repository.MemoryStore
	clock       *fixedClock
	bus         *entity.Bus
	route       *entity.Route
	seats       []*entity.Seat
	foreignSeat *entity.Seat
}

func newWorld(t *testing.T, totalSeats int) *world {
	t.Helper()
	ctx := context.Background()
	created := now.AddDate(0, 0, -7)

	w := &world{
		t:     t,
		store: repository.NewMemoryStore(zaptest.NewLogger(t)),
		clock: &fixedClock{now: now},
	}

	w.bus = &entity.Bus{Base: entity.NewBase(created), CompanyName: "Hanif", BusName: "Hanif-12", BusType: "AC", TotalSeats: totalSeats}
	other := &entity.Bus{Base: entity.NewBase(created), CompanyName: "Shyamoli", BusName: "SH-3", BusType: "Non-AC", TotalSeats: 1}
	w.route = &entity.Route{
		Base:           entity.NewBase(created),
		FromCity:       "Dhaka",
		ToCity:         "Chittagong",
		BoardingPoints: []string{"Kalyanpur", "Sayedabad"},
		DroppingPoints: []string{"Dampara", "GEC"},
	}
	require.NoError(t, w.store.Buses().Add(ctx, w.bus))
	require.NoError(t, w.store.Buses().Add(ctx, other))
	require.NoError(t, w.store.Routes().Add(ctx, w.route))

	for i := 0; i < totalSeats; i++ {
		row, col := i/4+1, i%4+1
		seat := &entity.Seat{
			Base:       entity.NewBase(created),
			BusID:      w.bus.ID,
			SeatNumber: fmt.Sprintf("%c%d", 'A'+row-1, col),
			Row:        row,
			Column:     col,
		}
		require.NoError(t, w.store.Seats().Add(ctx, seat))
		w.seats = append(w.seats, seat)
	}

	w.foreignSeat = &entity.Seat{Base: entity.NewBase(created), BusID: other.ID, SeatNumber: "A1", Row: 1, Column: 1}
	require.NoError(t, w.store.Seats().Add(ctx, w.foreignSeat))

	return w
}

func (w *world) addSchedule(day time.Time, start entity.TimeOfDay) *entity.Schedule {
	w.t.Helper()
	schedule := &entity.Schedule{
		Base:        entity.NewBase(now.AddDate(0, 0, -7)),
		BusID:       w.bus.ID,
		RouteID:     w.route.ID,
		JourneyDate: entity.CalendarDate(day),
		StartTime:   start,
		ArrivalTime: (start + entity.NewTimeOfDay(6, 0)).Normalize(),
		Price:       decimal.RequireFromString("1200.00"),
	}
	require.NoError(w.t, w.store.Schedules().Add(context.Background(), schedule))
	return schedule
}

func (w *world) addTicket(schedule *entity.Schedule, seat *entity.Seat, status entity.TicketStatus) *entity.Ticket {
	w.t.Helper()
	ticket := &entity.Ticket{
		Base:          entity.NewBase(now.Add(-time.Hour)),
		ScheduleID:    schedule.ID,
		SeatID:        seat.ID,
		PassengerName: "Karim",
		MobileNumber:  "01819000000",
		BoardingPoint: "Kalyanpur",
		DroppingPoint: "GEC",
		BookedAt:      now.Add(-time.Hour),
		Status:        status,
	}
	require.NoError(w.t, w.store.Tickets().Add(context.Background(), ticket))
	return ticket
}

func passenger() request.PassengerDetails {
	return request.PassengerDetails{
		PassengerName: "Farzana Akter",
		MobileNumber:  "01712345678",
		BoardingPoint: "Sayedabad",
		DroppingPoint: "Dampara",
	}
}

func reserveReq(schedule *entity.Schedule, seat *entity.Seat) *request.ReserveSeatRequest {
	return &request.ReserveSeatRequest{
		ScheduleID:       schedule.ID.String(),
		SeatID:           seat.ID.String(),
		PassengerDetails: passenger(),
	}
}
