package repository

import (
	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

var busTable = table[entity.Bus]{
	name:    "buses",
	columns: []string{"id", "company_name", "bus_name", "bus_type", "total_seats", "created_at", "updated_at"},
	bind: func(b *entity.Bus) ([]any, func()) {
		return []any{&b.ID, &b.CompanyName, &b.BusName, &b.BusType, &b.TotalSeats, &b.CreatedAt, &b.UpdatedAt}, nil
	},
	values: func(b *entity.Bus) []any {
		return []any{b.ID, b.CompanyName, b.BusName, b.BusType, b.TotalSeats, b.CreatedAt, b.UpdatedAt}
	},
	id: func(b *entity.Bus) uuid.UUID { return b.ID },
}
