package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/apperror"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type postgresStore struct {
	db      database.PgxIface
	log     *zap.Logger
	baseLog *zap.Logger

	buses     *pgRepository[entity.Bus]
	routes    *pgRepository[entity.Route]
	schedules *pgRepository[entity.Schedule]
	seats     *pgRepository[entity.Seat]
	tickets   *pgRepository[entity.Ticket]
}

// NewPostgresStore builds the store over a pgx pool.
func NewPostgresStore(db database.PgxIface, log *zap.Logger) Store {
	return &postgresStore{
		db:        db,
		log:       log.With(zap.String("repository", "store")),
		baseLog:   log,
		buses:     newPgRepository(db, busTable, log),
		routes:    newPgRepository(db, routeTable, log),
		schedules: newPgRepository(db, scheduleTable, log),
		seats:     newPgRepository(db, seatTable, log),
		tickets:   newPgRepository(db, ticketTable, log),
	}
}

func (s *postgresStore) Buses() Repository[entity.Bus]           { return s.buses }
func (s *postgresStore) Routes() Repository[entity.Route]       { return s.routes }
func (s *postgresStore) Schedules() Repository[entity.Schedule] { return s.schedules }
func (s *postgresStore) Seats() Repository[entity.Seat]         { return s.seats }
func (s *postgresStore) Tickets() Repository[entity.Ticket]     { return s.tickets }

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scheduleJoinSQL() string {
	return fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		JOIN routes r ON r.id = s.route_id`,
		scheduleTable.selectColumns("s"), busTable.selectColumns("b"), routeTable.selectColumns("r"))
}

func scanScheduleJoin(row scanner) (*entity.Schedule, error) {
	schedule := &entity.Schedule{Bus: &entity.Bus{}, Route: &entity.Route{}}

	sDest, sDone := scheduleTable.bind(schedule)
	bDest, _ := busTable.bind(schedule.Bus)
	rDest, _ := routeTable.bind(schedule.Route)

	dest := append(append(sDest, bDest...), rDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	sDone()

	return schedule, nil
}

func (s *postgresStore) FindSchedules(ctx context.Context, fromCity, toCity string, date time.Time) ([]*entity.Schedule, error) {
	query := scheduleJoinSQL() + `
		WHERE r.from_city = $1 AND r.to_city = $2 AND s.journey_date = $3
		ORDER BY s.start_time`

	rows, err := s.db.Query(ctx, query, fromCity, toCity, entity.CalendarDate(date))
	if err != nil {
		s.log.Error("Failed to find schedules",
			zap.Error(err),
			zap.String("from", fromCity),
			zap.String("to", toCity),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find schedules %s -> %s: %w", fromCity, toCity, err)
	}
	defer rows.Close()

	var schedules []*entity.Schedule
	for rows.Next() {
		schedule, err := scanScheduleJoin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	if err := s.attachTickets(ctx, schedules); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (s *postgresStore) FindScheduleDetails(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := scheduleJoinSQL() + ` WHERE s.id = $1`

	schedule, err := scanScheduleJoin(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to find schedule details", zap.Error(err), zap.String("schedule_id", id.String()))
		return nil, fmt.Errorf("find schedule %s: %w", id.String(), err)
	}

	if err := s.attachTickets(ctx, []*entity.Schedule{schedule}); err != nil {
		return nil, err
	}

	return schedule, nil
}

// attachTickets loads all tickets of the given schedules in one query.
func (s *postgresStore) attachTickets(ctx context.Context, schedules []*entity.Schedule) error {
	if len(schedules) == 0 {
		return nil
	}

	ids := make([]string, len(schedules))
	byID := make(map[uuid.UUID]*entity.Schedule, len(schedules))
	for i, schedule := range schedules {
		ids[i] = schedule.ID.String()
		byID[schedule.ID] = schedule
		schedule.Tickets = []*entity.Ticket{}
	}

	query := fmt.Sprintf("SELECT %s FROM tickets WHERE schedule_id = ANY($1::uuid[])", ticketTable.selectColumns(""))
	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		s.log.Error("Failed to load tickets", zap.Error(err), zap.Int("schedules", len(ids)))
		return fmt.Errorf("load tickets: %w", err)
	}

	tickets, err := ticketTable.scanAll(rows)
	if err != nil {
		return fmt.Errorf("scan tickets: %w", err)
	}

	for _, ticket := range tickets {
		if schedule, ok := byID[ticket.ScheduleID]; ok {
			schedule.Tickets = append(schedule.Tickets, ticket)
		}
	}
	return nil
}

func (s *postgresStore) FindSeatsByBus(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	query := fmt.Sprintf("SELECT %s FROM seats WHERE bus_id = $1 ORDER BY seat_row, seat_column", seatTable.selectColumns(""))

	rows, err := s.db.Query(ctx, query, busID)
	if err != nil {
		s.log.Error("Failed to find seats by bus", zap.Error(err), zap.String("bus_id", busID.String()))
		return nil, fmt.Errorf("find seats by bus %s: %w", busID.String(), err)
	}

	seats, err := seatTable.scanAll(rows)
	if err != nil {
		return nil, fmt.Errorf("scan seats: %w", err)
	}
	return seats, nil
}

func (s *postgresStore) FindTicket(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM tickets t
		JOIN seats st ON st.id = t.seat_id
		JOIN schedules s ON s.id = t.schedule_id
		JOIN buses b ON b.id = s.bus_id
		JOIN routes r ON r.id = s.route_id
		WHERE t.id = $1`,
		ticketTable.selectColumns("t"), seatTable.selectColumns("st"),
		scheduleTable.selectColumns("s"), busTable.selectColumns("b"), routeTable.selectColumns("r"))

	ticket := &entity.Ticket{
		Seat:     &entity.Seat{},
		Schedule: &entity.Schedule{Bus: &entity.Bus{}, Route: &entity.Route{}},
	}
	tDest, tDone := ticketTable.bind(ticket)
	stDest, _ := seatTable.bind(ticket.Seat)
	sDest, sDone := scheduleTable.bind(ticket.Schedule)
	bDest, _ := busTable.bind(ticket.Schedule.Bus)
	rDest, _ := routeTable.bind(ticket.Schedule.Route)

	var dest []any
	for _, d := range [][]any{tDest, stDest, sDest, bDest, rDest} {
		dest = append(dest, d...)
	}

	err := s.db.QueryRow(ctx, query, id).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to find ticket", zap.Error(err), zap.String("ticket_id", id.String()))
		return nil, fmt.Errorf("find ticket %s: %w", id.String(), err)
	}
	tDone()
	sDone()

	return ticket, nil
}

func (s *postgresStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &pgTx{
		tx:      tx,
		tickets: newPgRepository(tx, ticketTable, s.baseLog),
		log:     s.log,
	}, nil
}

// pgTx runs at READ COMMITTED; LockSeat makes the following reads see every
// ticket committed by the previous holder.
type pgTx struct {
	tx      pgx.Tx
	tickets *pgRepository[entity.Ticket]
	log     *zap.Logger
}

// seatLockKey is hashed server-side into the advisory lock key.
func seatLockKey(scheduleID, seatID uuid.UUID) string {
	return "seat:" + scheduleID.String() + ":" + seatID.String()
}

func (t *pgTx) LockSeat(ctx context.Context, scheduleID, seatID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", seatLockKey(scheduleID, seatID))
	if err != nil {
		t.log.Error("Failed to lock seat",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.String("seat_id", seatID.String()),
		)
		return fmt.Errorf("lock seat %s on schedule %s: %w", seatID.String(), scheduleID.String(), err)
	}
	return nil
}

func (t *pgTx) FindActiveTicket(ctx context.Context, scheduleID, seatID uuid.UUID) (*entity.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE schedule_id = $1 AND seat_id = $2 AND %s LIMIT 1",
		ticketTable.selectColumns(""), activeTicketFilter)

	ticket, err := ticketTable.scanOne(t.tx.QueryRow(ctx, query, scheduleID, seatID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active ticket for seat %s: %w", seatID.String(), err)
	}
	return ticket, nil
}

func (t *pgTx) FindTicketForUpdate(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id = $1 FOR UPDATE", ticketTable.selectColumns(""))

	ticket, err := ticketTable.scanOne(t.tx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock ticket %s: %w", id.String(), err)
	}
	return ticket, nil
}

func (t *pgTx) AddTicket(ctx context.Context, ticket *entity.Ticket) error {
	err := t.tickets.Add(ctx, ticket)
	if apperror.KindOf(err) == apperror.KindConflict {
		return apperror.Wrap(apperror.KindConflict, err, "seat %s no longer available", ticket.SeatID.String())
	}
	return err
}

func (t *pgTx) UpdateTicket(ctx context.Context, ticket *entity.Ticket) error {
	return t.tickets.Update(ctx, ticket)
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Wrap(apperror.KindConflict, err, "seat no longer available")
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
