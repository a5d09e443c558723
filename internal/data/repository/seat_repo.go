package repository

import (
	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

var seatTable = table[entity.Seat]{
	name:    "seats",
	columns: []string{"id", "bus_id", "seat_number", "seat_row", "seat_column", "created_at", "updated_at"},
	bind: func(s *entity.Seat) ([]any, func()) {
		return []any{&s.ID, &s.BusID, &s.SeatNumber, &s.Row, &s.Column, &s.CreatedAt, &s.UpdatedAt}, nil
	},
	values: func(s *entity.Seat) []any {
		return []any{s.ID, s.BusID, s.SeatNumber, s.Row, s.Column, s.CreatedAt, s.UpdatedAt}
	},
	id: func(s *entity.Seat) uuid.UUID { return s.ID },
}
