package response

import (
	"time"

	"bus-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type TicketResponse struct {
	ID            string              `json:"id"`
	ScheduleID    string              `json:"schedule_id"`
	SeatID        string              `json:"seat_id"`
	CompanyName   string              `json:"company_name"`
	BusName       string              `json:"bus_name"`
	FromCity      string              `json:"from_city"`
	ToCity        string              `json:"to_city"`
	JourneyDate   string              `json:"journey_date"`
	StartTime     entity.TimeOfDay    `json:"start_time"`
	ArrivalTime   entity.TimeOfDay    `json:"arrival_time"`
	SeatNumber    string              `json:"seat_number"`
	PassengerName string              `json:"passenger_name"`
	MobileNumber  string              `json:"mobile_number"`
	BoardingPoint string              `json:"boarding_point"`
	DroppingPoint string              `json:"dropping_point"`
	Price         decimal.Decimal     `json:"price"`
	BookedAt      time.Time           `json:"booked_at"`
	Status        entity.TicketStatus `json:"status"`
}

// SeatFailure reports why one seat of a batch was not booked.
type SeatFailure struct {
	SeatID  string `json:"seat_id"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type BatchReservationResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Failed  []SeatFailure    `json:"failed"`
}

// TicketToResponse flattens a ticket and its schedule, bus, route and seat.
func TicketToResponse(t *entity.Ticket, schedule *entity.Schedule, seat *entity.Seat) TicketResponse {
	resp := TicketResponse{
		ID:            t.ID.String(),
		ScheduleID:    t.ScheduleID.String(),
		SeatID:        t.SeatID.String(),
		PassengerName: t.PassengerName,
		MobileNumber:  t.MobileNumber,
		BoardingPoint: t.BoardingPoint,
		DroppingPoint: t.DroppingPoint,
		BookedAt:      t.BookedAt,
		Status:        t.Status,
	}

	if seat != nil {
		resp.SeatNumber = seat.SeatNumber
	}
	if schedule != nil {
		resp.JourneyDate = schedule.JourneyDate.Format("2006-01-02")
		resp.StartTime = schedule.StartTime
		resp.ArrivalTime = schedule.ArrivalTime
		resp.Price = schedule.Price
		if schedule.Bus != nil {
			resp.CompanyName = schedule.Bus.CompanyName
			resp.BusName = schedule.Bus.BusName
		}
		if schedule.Route != nil {
			resp.FromCity = schedule.Route.FromCity
			resp.ToCity = schedule.Route.ToCity
		}
	}

	return resp
}
