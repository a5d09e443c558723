package usecase

import (
	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

// SeatsLeft is the bus capacity minus the schedule's pending and confirmed
// tickets, clamped to [0, capacity]. Tickets must be loaded.
func SeatsLeft(schedule *entity.Schedule) int {
	if schedule.Bus == nil {
		return 0
	}
	total := schedule.Bus.TotalSeats
	left := total - len(schedule.ActiveTickets())
	return max(0, min(left, total))
}

// SeatStatuses marks a seat booked when it has a pending or confirmed ticket.
func SeatStatuses(seats []*entity.Seat, tickets []*entity.Ticket) map[uuid.UUID]entity.SeatStatus {
	taken := make(map[uuid.UUID]bool, len(tickets))
	for _, t := range tickets {
		if t.IsActive() {
			taken[t.SeatID] = true
		}
	}

	statuses := make(map[uuid.UUID]entity.SeatStatus, len(seats))
	for _, seat := range seats {
		if taken[seat.ID] {
			statuses[seat.ID] = entity.SeatStatusBooked
		} else {
			statuses[seat.ID] = entity.SeatStatusAvailable
		}
	}
	return statuses
}
