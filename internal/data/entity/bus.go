package entity

type Bus struct {
	Base
	CompanyName string `db:"company_name"`
	BusName     string `db:"bus_name"`
	BusType     string `db:"bus_type"` // AC, Non-AC, Sleeper, etc.
	TotalSeats  int    `db:"total_seats"`
}
