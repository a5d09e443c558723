package repository

import (
	"testing"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTable_SelectColumns(t *testing.T) {
	assert.Equal(t, "id, company_name, bus_name, bus_type, total_seats, created_at, updated_at", busTable.selectColumns(""))
	assert.Equal(t, "r.id, r.from_city, r.to_city, r.boarding_points, r.dropping_points, r.created_at, r.updated_at", routeTable.selectColumns("r"))
}

func TestTable_BindAndValuesAgreeWithColumns(t *testing.T) {
	sched := &entity.Schedule{}
	dest, _ := scheduleTable.bind(sched)
	assert.Len(t, dest, len(scheduleTable.columns))
	assert.Len(t, scheduleTable.values(sched), len(scheduleTable.columns))

	tk := &entity.Ticket{}
	dest, _ = ticketTable.bind(tk)
	assert.Len(t, dest, len(ticketTable.columns))
	assert.Len(t, ticketTable.values(tk), len(ticketTable.columns))
}

func TestPgConversions(t *testing.T) {
	price := decimal.RequireFromString("1250.50")
	assert.True(t, price.Equal(fromPgNumeric(toPgNumeric(price))))

	tod := entity.NewTimeOfDay(23, 45)
	assert.Equal(t, tod, fromPgTime(toPgTime(tod)))

	// 21:00 + 6h arrives at 03:00 the next day.
	overnight := entity.NewTimeOfDay(21, 0) + entity.NewTimeOfDay(6, 0)
	assert.Equal(t, int64(3*60*60*1_000_000), toPgTime(overnight).Microseconds)
	assert.Equal(t, entity.NewTimeOfDay(3, 0), fromPgTime(toPgTime(overnight)))

	assert.True(t, fromPgNumeric(toPgNumeric(decimal.Zero)).IsZero())
}

func TestSeatLockKey(t *testing.T) {
	schedule := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seat := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "seat:11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222", seatLockKey(schedule, seat))
	assert.NotEqual(t, seatLockKey(schedule, seat), seatLockKey(seat, schedule))
}
