package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Schedule struct {
	Base
	BusID       uuid.UUID       `db:"bus_id"`
	RouteID     uuid.UUID       `db:"route_id"`
	JourneyDate time.Time       `db:"journey_date"` // UTC midnight
	StartTime   TimeOfDay       `db:"start_time"`
	ArrivalTime TimeOfDay       `db:"arrival_time"` // may be earlier than StartTime for overnight trips
	Price       decimal.Decimal `db:"price"`

	// Loaded eagerly by the store's schedule queries.
	Bus     *Bus      `db:"-"`
	Route   *Route    `db:"-"`
	Tickets []*Ticket `db:"-"`
}

// ActiveTickets returns the tickets that still hold their seat.
func (s *Schedule) ActiveTickets() []*Ticket {
	active := make([]*Ticket, 0, len(s.Tickets))
	for _, t := range s.Tickets {
		if t.IsActive() {
			active = append(active, t)
		}
	}
	return active
}
