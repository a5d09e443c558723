package entity

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type Ticket struct {
	Base
	ScheduleID    uuid.UUID    `db:"schedule_id"`
	SeatID        uuid.UUID    `db:"seat_id"`
	PassengerName string       `db:"passenger_name"`
	MobileNumber  string       `db:"mobile_number"`
	BoardingPoint string       `db:"boarding_point"`
	DroppingPoint string       `db:"dropping_point"`
	BookedAt      time.Time    `db:"booked_at"`
	Status        TicketStatus `db:"status"`

	Schedule *Schedule `db:"-"`
	Seat     *Seat     `db:"-"`
}

// IsActive reports whether the ticket occupies its seat.
func (t *Ticket) IsActive() bool {
	return t.Status == TicketStatusPending || t.Status == TicketStatusConfirmed
}

// CanTransitionTo reports whether the status change is allowed.
// pending -> confirmed | cancelled, confirmed -> cancelled; cancelled is terminal.
func (t *Ticket) CanTransitionTo(next TicketStatus) bool {
	switch t.Status {
	case TicketStatusPending:
		return next == TicketStatusConfirmed || next == TicketStatusCancelled
	case TicketStatusConfirmed:
		return next == TicketStatusCancelled
	default:
		return false
	}
}
