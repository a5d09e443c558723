package repository

import (
	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

var ticketTable = table[entity.Ticket]{
	name: "tickets",
	columns: []string{
		"id", "schedule_id", "seat_id", "passenger_name", "mobile_number",
		"boarding_point", "dropping_point", "booked_at", "status", "created_at", "updated_at",
	},
	bind: func(t *entity.Ticket) ([]any, func()) {
		return []any{
			&t.ID, &t.ScheduleID, &t.SeatID, &t.PassengerName, &t.MobileNumber,
			&t.BoardingPoint, &t.DroppingPoint, &t.BookedAt, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		}, func() {
			t.BookedAt = t.BookedAt.UTC()
		}
	},
	values: func(t *entity.Ticket) []any {
		return []any{
			t.ID, t.ScheduleID, t.SeatID, t.PassengerName, t.MobileNumber,
			t.BoardingPoint, t.DroppingPoint, t.BookedAt, string(t.Status), t.CreatedAt, t.UpdatedAt,
		}
	},
	id: func(t *entity.Ticket) uuid.UUID { return t.ID },
}

const activeTicketFilter = "status IN ('pending', 'confirmed')"
