package repository

import (
	"time"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var scheduleTable = table[entity.Schedule]{
	name: "schedules",
	columns: []string{
		"id", "bus_id", "route_id", "journey_date", "start_time", "arrival_time", "price", "created_at", "updated_at",
	},
	bind: func(s *entity.Schedule) ([]any, func()) {
		var start, arrival pgtype.Time
		var price pgtype.Numeric
		dest := []any{&s.ID, &s.BusID, &s.RouteID, &s.JourneyDate, &start, &arrival, &price, &s.CreatedAt, &s.UpdatedAt}
		return dest, func() {
			s.JourneyDate = entity.CalendarDate(s.JourneyDate)
			s.StartTime = fromPgTime(start)
			s.ArrivalTime = fromPgTime(arrival)
			s.Price = fromPgNumeric(price)
		}
	},
	values: func(s *entity.Schedule) []any {
		return []any{
			s.ID, s.BusID, s.RouteID, entity.CalendarDate(s.JourneyDate),
			toPgTime(s.StartTime), toPgTime(s.ArrivalTime), toPgNumeric(s.Price),
			s.CreatedAt, s.UpdatedAt,
		}
	},
	id: func(s *entity.Schedule) uuid.UUID { return s.ID },
}

// toPgTime stores arrivals past midnight as their wall-clock time; TIME
// rejects values of 24h and more.
func toPgTime(t entity.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Normalize().Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) entity.TimeOfDay {
	return entity.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

func toPgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromPgNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
