package response

import (
	"bus-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// AvailableTripResponse is one search result row.
type AvailableTripResponse struct {
	ScheduleID  string           `json:"schedule_id"`
	CompanyName string           `json:"company_name"`
	BusName     string           `json:"bus_name"`
	StartTime   entity.TimeOfDay `json:"start_time"`
	ArrivalTime entity.TimeOfDay `json:"arrival_time"`
	SeatsLeft   int              `json:"seats_left"`
	Price       decimal.Decimal  `json:"price"`
}

type SeatResponse struct {
	ID         string            `json:"id"`
	SeatNumber string            `json:"seat_number"`
	Row        int               `json:"row"`
	Column     int               `json:"column"`
	Status     entity.SeatStatus `json:"status"`
}

type TripDetailsResponse struct {
	ScheduleID     string           `json:"schedule_id"`
	CompanyName    string           `json:"company_name"`
	BusName        string           `json:"bus_name"`
	BusType        string           `json:"bus_type"`
	TotalSeats     int              `json:"total_seats"`
	SeatsLeft      int              `json:"seats_left"`
	FromCity       string           `json:"from_city"`
	ToCity         string           `json:"to_city"`
	JourneyDate    string           `json:"journey_date"`
	StartTime      entity.TimeOfDay `json:"start_time"`
	ArrivalTime    entity.TimeOfDay `json:"arrival_time"`
	Price          decimal.Decimal  `json:"price"`
	BoardingPoints []string         `json:"boarding_points"`
	DroppingPoints []string         `json:"dropping_points"`
	Seats          []SeatResponse   `json:"seats"`
}

func ScheduleToAvailableTrip(s *entity.Schedule, seatsLeft int) AvailableTripResponse {
	return AvailableTripResponse{
		ScheduleID:  s.ID.String(),
		CompanyName: s.Bus.CompanyName,
		BusName:     s.Bus.BusName,
		StartTime:   s.StartTime,
		ArrivalTime: s.ArrivalTime,
		SeatsLeft:   seatsLeft,
		Price:       s.Price,
	}
}
