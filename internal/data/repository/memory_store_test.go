package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var journeyDay = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store    *MemoryStore
	bus      *entity.Bus
	route    *entity.Route
	schedule *entity.Schedule
	seats    []*entity.Seat
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	now := journeyDay.Add(-72 * time.Hour)

	store := NewMemoryStore(zaptest.NewLogger(t))
	bus := &entity.Bus{Base: entity.NewBase(now), CompanyName: "Green Line", BusName: "GL-7", BusType: "AC", TotalSeats: 4}
	route := &entity.Route{
		Base:           entity.NewBase(now),
		FromCity:       "Dhaka",
		ToCity:         "Sylhet",
		BoardingPoints: []string{"Gabtoli", "Kalabagan"},
		DroppingPoints: []string{"Kadamtali"},
	}
	schedule := &entity.Schedule{
		Base:        entity.NewBase(now),
		BusID:       bus.ID,
		RouteID:     route.ID,
		JourneyDate: journeyDay,
		StartTime:   entity.NewTimeOfDay(22, 30),
		ArrivalTime: entity.NewTimeOfDay(5, 0),
		Price:       decimal.RequireFromString("850.00"),
	}

	require.NoError(t, store.Buses().Add(ctx, bus))
	require.NoError(t, store.Routes().Add(ctx, route))
	require.NoError(t, store.Schedules().Add(ctx, schedule))

	var seats []*entity.Seat
	for _, s := range []struct {
		number   string
		row, col int
	}{{"B2", 2, 2}, {"A1", 1, 1}, {"B1", 2, 1}, {"A2", 1, 2}} {
		seat := &entity.Seat{Base: entity.NewBase(now), BusID: bus.ID, SeatNumber: s.number, Row: s.row, Column: s.col}
		require.NoError(t, store.Seats().Add(ctx, seat))
		seats = append(seats, seat)
	}

	return &fixture{store: store, bus: bus, route: route, schedule: schedule, seats: seats}
}

func (f *fixture) ticket(seat *entity.Seat, status entity.TicketStatus) *entity.Ticket {
	return &entity.Ticket{
		Base:          entity.NewBase(journeyDay),
		ScheduleID:    f.schedule.ID,
		SeatID:        seat.ID,
		PassengerName: "Nadia",
		MobileNumber:  "01711000000",
		BoardingPoint: "Gabtoli",
		DroppingPoint: "Kadamtali",
		BookedAt:      journeyDay,
		Status:        status,
	}
}

func TestMemoryRepository_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.store.Buses().GetByID(ctx, f.bus.ID)
	require.NoError(t, err)
	assert.Equal(t, "GL-7", got.BusName)

	got.BusName = "mutated"
	again, _ := f.store.Buses().GetByID(ctx, f.bus.ID)
	assert.Equal(t, "GL-7", again.BusName, "reads must not alias stored records")

	assert.Equal(t, apperror.KindConflict, apperror.KindOf(f.store.Buses().Add(ctx, f.bus)))

	got.BusName = "GL-8"
	require.NoError(t, f.store.Buses().Update(ctx, got))
	again, _ = f.store.Buses().GetByID(ctx, f.bus.ID)
	assert.Equal(t, "GL-8", again.BusName)

	require.NoError(t, f.store.Buses().Delete(ctx, f.bus.ID))
	missing, err := f.store.Buses().GetByID(ctx, f.bus.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(f.store.Buses().Delete(ctx, f.bus.ID)))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(f.store.Buses().Update(ctx, got)))

	all, err := f.store.Seats().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryStore_FindSchedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tk := f.ticket(f.seats[0], entity.TicketStatusConfirmed)
	require.NoError(t, f.store.Tickets().Add(ctx, tk))

	// Same route, different day.
	other := &entity.Schedule{Base: entity.NewBase(journeyDay), BusID: f.bus.ID, RouteID: f.route.ID, JourneyDate: journeyDay.AddDate(0, 0, 1)}
	require.NoError(t, f.store.Schedules().Add(ctx, other))

	found, err := f.store.FindSchedules(ctx, "Dhaka", "Sylhet", journeyDay.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, f.schedule.ID, found[0].ID)
	require.NotNil(t, found[0].Bus)
	require.NotNil(t, found[0].Route)
	assert.Equal(t, 4, found[0].Bus.TotalSeats)
	require.Len(t, found[0].Tickets, 1)
	assert.Equal(t, tk.ID, found[0].Tickets[0].ID)

	none, err := f.store.FindSchedules(ctx, "Sylhet", "Dhaka", journeyDay)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_FindSeatsByBusOrdersByRowThenColumn(t *testing.T) {
	f := newFixture(t)

	seats, err := f.store.FindSeatsByBus(context.Background(), f.bus.ID)
	require.NoError(t, err)

	var numbers []string
	for _, s := range seats {
		numbers = append(numbers, s.SeatNumber)
	}
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, numbers)
}

func TestMemoryStore_FindTicketLoadsAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tk := f.ticket(f.seats[1], entity.TicketStatusPending)
	require.NoError(t, f.store.Tickets().Add(ctx, tk))

	got, err := f.store.FindTicket(ctx, tk.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Seat)
	require.NotNil(t, got.Schedule)
	assert.Equal(t, "A1", got.Seat.SeatNumber)
	assert.Equal(t, "Green Line", got.Schedule.Bus.CompanyName)
	assert.Equal(t, "Sylhet", got.Schedule.Route.ToCity)

	missing, err := f.store.FindTicket(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWithinTx_CommitAppliesStagedWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.ticket(f.seats[0], entity.TicketStatusConfirmed)

	err := WithinTx(ctx, f.store, zaptest.NewLogger(t), func(tx Tx) error {
		require.NoError(t, tx.LockSeat(ctx, f.schedule.ID, tk.SeatID))
		require.NoError(t, tx.AddTicket(ctx, tk))

		staged, err := tx.FindActiveTicket(ctx, f.schedule.ID, tk.SeatID)
		require.NoError(t, err)
		assert.Equal(t, tk.ID, staged.ID)

		outside, err := f.store.Tickets().GetByID(ctx, tk.ID)
		require.NoError(t, err)
		assert.Nil(t, outside, "staged ticket must not be visible before commit")
		return nil
	})
	require.NoError(t, err)

	committed, err := f.store.Tickets().GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.NotNil(t, committed)
}

func TestWithinTx_ErrorRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.ticket(f.seats[0], entity.TicketStatusConfirmed)
	boom := errors.New("boom")

	err := WithinTx(ctx, f.store, zaptest.NewLogger(t), func(tx Tx) error {
		require.NoError(t, tx.LockSeat(ctx, f.schedule.ID, tk.SeatID))
		require.NoError(t, tx.AddTicket(ctx, tk))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := f.store.Tickets().GetByID(ctx, tk.ID)
	assert.Nil(t, got)

	// The seat lock was released.
	lockCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	tx, err := f.store.BeginTx(lockCtx)
	require.NoError(t, err)
	require.NoError(t, tx.LockSeat(lockCtx, f.schedule.ID, tk.SeatID))
	require.NoError(t, tx.Rollback(lockCtx))
}

func TestWithinTx_PanicRollsBackAndRepanics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.ticket(f.seats[0], entity.TicketStatusConfirmed)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithinTx(ctx, f.store, zaptest.NewLogger(t), func(tx Tx) error {
			_ = tx.AddTicket(ctx, tk)
			panic("kaboom")
		})
	})

	got, _ := f.store.Tickets().GetByID(ctx, tk.ID)
	assert.Nil(t, got)
}

func TestMemoryTx_CommitRejectsSecondLiveTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.ticket(f.seats[0], entity.TicketStatusPending)
	require.NoError(t, f.store.Tickets().Add(ctx, pending))

	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddTicket(ctx, f.ticket(f.seats[0], entity.TicketStatusConfirmed)))

	err = tx.Commit(ctx)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.NoError(t, tx.Rollback(ctx))

	// A cancelled ticket does not block the seat.
	pending.Status = entity.TicketStatusCancelled
	require.NoError(t, f.store.Tickets().Update(ctx, pending))

	tx, err = f.store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddTicket(ctx, f.ticket(f.seats[0], entity.TicketStatusConfirmed)))
	require.NoError(t, tx.Commit(ctx))
	assert.ErrorIs(t, tx.Commit(ctx), errTxClosed)
}

func TestMemoryTx_LockSeatSerializesWriters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatID := f.seats[0].ID

	first, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, first.LockSeat(ctx, f.schedule.ID, seatID))

	var acquired sync.WaitGroup
	acquired.Add(1)
	order := make(chan string, 2)

	go func() {
		defer acquired.Done()
		second, err := f.store.BeginTx(ctx)
		if err != nil {
			return
		}
		if err := second.LockSeat(ctx, f.schedule.ID, seatID); err == nil {
			order <- "second"
		}
		_ = second.Rollback(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	order <- "first"
	require.NoError(t, first.Commit(ctx))
	acquired.Wait()

	assert.Equal(t, "first", <-order)
	assert.Equal(t, "second", <-order)
}

func TestMemoryTx_LockSeatHonoursContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatID := f.seats[0].ID

	holder, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, holder.LockSeat(ctx, f.schedule.ID, seatID))
	defer holder.Rollback(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	waiter, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	err = waiter.LockSeat(waitCtx, f.schedule.ID, seatID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, waiter.Rollback(ctx))
}

func TestMemoryTx_FindTicketForUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.ticket(f.seats[0], entity.TicketStatusConfirmed)
	require.NoError(t, f.store.Tickets().Add(ctx, tk))

	err := WithinTx(ctx, f.store, zaptest.NewLogger(t), func(tx Tx) error {
		got, err := tx.FindTicketForUpdate(ctx, tk.ID)
		if err != nil {
			return err
		}
		got.Status = entity.TicketStatusCancelled
		return tx.UpdateTicket(ctx, got)
	})
	require.NoError(t, err)

	got, err := f.store.Tickets().GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusCancelled, got.Status)
}
