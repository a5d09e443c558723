package entity

import "github.com/google/uuid"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
)

type Seat struct {
	Base
	BusID      uuid.UUID `db:"bus_id"`
	SeatNumber string    `db:"seat_number"` // A1, A2, B1, etc.
	Row        int       `db:"seat_row"`    // 1-based
	Column     int       `db:"seat_column"` // 1-based
}
