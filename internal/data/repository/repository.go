package repository

import (
	"context"
	"time"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository is the CRUD surface every entity kind gets.
// GetByID returns (nil, nil) when the record does not exist.
type Repository[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetAll(ctx context.Context) ([]*T, error)
	Add(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, match func(*T) bool) ([]*T, error)
}

// Store is the schedule store used by the booking core.
type Store interface {
	Buses() Repository[entity.Bus]
	Routes() Repository[entity.Route]
	Schedules() Repository[entity.Schedule]
	Seats() Repository[entity.Seat]
	Tickets() Repository[entity.Ticket]

	// FindSchedules matches the city pair and the calendar date of date.
	// Bus, Route and Tickets are loaded on every result.
	FindSchedules(ctx context.Context, fromCity, toCity string, date time.Time) ([]*entity.Schedule, error)
	// FindScheduleDetails loads one schedule with Bus, Route and Tickets, or nil.
	FindScheduleDetails(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	// FindSeatsByBus returns the bus layout ordered by row then column.
	FindSeatsByBus(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error)
	// FindTicket loads a ticket with its Seat and Schedule (Bus, Route), or nil.
	FindTicket(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)

	BeginTx(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
}

// Tx is one unit of work. Writes become visible to others only after Commit.
// Nested transactions are not supported.
type Tx interface {
	// LockSeat blocks until no other transaction holds (scheduleID, seatID).
	// The lock is released on Commit or Rollback.
	LockSeat(ctx context.Context, scheduleID, seatID uuid.UUID) error
	FindActiveTicket(ctx context.Context, scheduleID, seatID uuid.UUID) (*entity.Ticket, error)
	FindTicketForUpdate(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	AddTicket(ctx context.Context, ticket *entity.Ticket) error
	UpdateTicket(ctx context.Context, ticket *entity.Ticket) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithinTx runs fn in a transaction. It commits when fn returns nil and
// rolls back on error or panic.
func WithinTx(ctx context.Context, store Store, log *zap.Logger, fn func(tx Tx) error) (err error) {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error("Rollback after panic failed", zap.Error(rbErr))
			}
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error("Rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
