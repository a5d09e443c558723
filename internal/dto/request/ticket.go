package request

type PassengerDetails struct {
	PassengerName string `json:"passenger_name" validate:"required,min=2,max=100"`
	MobileNumber  string `json:"mobile_number" validate:"required,min=6,max=20,numeric"`
	BoardingPoint string `json:"boarding_point" validate:"required,max=255"`
	DroppingPoint string `json:"dropping_point" validate:"required,max=255"`
}

type ReserveSeatRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
	SeatID     string `json:"seat_id" validate:"required,uuid"`
	PassengerDetails
}

// ReserveSeatsRequest books several seats for one passenger; each seat is
// reserved independently.
type ReserveSeatsRequest struct {
	ScheduleID string   `json:"schedule_id" validate:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" validate:"required,min=1,unique,dive,uuid"`
	PassengerDetails
}
