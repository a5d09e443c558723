package repository

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errTxClosed = errors.New("transaction already closed")

// MemoryStore is a process-local Store. It backs the memory driver and tests.
type MemoryStore struct {
	buses     *memRepository[entity.Bus]
	routes    *memRepository[entity.Route]
	schedules *memRepository[entity.Schedule]
	seats     *memRepository[entity.Seat]
	tickets   *memRepository[entity.Ticket]

	locks *keyedLocker
	log   *zap.Logger
}

func NewMemoryStore(log *zap.Logger) *MemoryStore {
	return &MemoryStore{
		buses: newMemRepository("buses", func(b *entity.Bus) uuid.UUID { return b.ID }, nil, log),
		routes: newMemRepository("routes", func(r *entity.Route) uuid.UUID { return r.ID }, func(r entity.Route) entity.Route {
			r.BoardingPoints = slices.Clone(r.BoardingPoints)
			r.DroppingPoints = slices.Clone(r.DroppingPoints)
			return r
		}, log),
		schedules: newMemRepository("schedules", func(s *entity.Schedule) uuid.UUID { return s.ID }, func(s entity.Schedule) entity.Schedule {
			s.Bus, s.Route, s.Tickets = nil, nil, nil
			return s
		}, log),
		seats: newMemRepository("seats", func(s *entity.Seat) uuid.UUID { return s.ID }, nil, log),
		tickets: newMemRepository("tickets", func(t *entity.Ticket) uuid.UUID { return t.ID }, func(t entity.Ticket) entity.Ticket {
			t.Schedule, t.Seat = nil, nil
			return t
		}, log),
		locks: newKeyedLocker(),
		log:   log.With(zap.String("repository", "memory")),
	}
}

func (s *MemoryStore) Buses() Repository[entity.Bus]           { return s.buses }
func (s *MemoryStore) Routes() Repository[entity.Route]       { return s.routes }
func (s *MemoryStore) Schedules() Repository[entity.Schedule] { return s.schedules }
func (s *MemoryStore) Seats() Repository[entity.Seat]         { return s.seats }
func (s *MemoryStore) Tickets() Repository[entity.Ticket]     { return s.tickets }

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) FindSchedules(ctx context.Context, fromCity, toCity string, date time.Time) ([]*entity.Schedule, error) {
	day := entity.CalendarDate(date)

	routes, err := s.routes.Query(ctx, func(r *entity.Route) bool {
		return r.FromCity == fromCity && r.ToCity == toCity
	})
	if err != nil {
		return nil, err
	}
	byRoute := make(map[uuid.UUID]*entity.Route, len(routes))
	for _, r := range routes {
		byRoute[r.ID] = r
	}

	schedules, err := s.schedules.Query(ctx, func(sc *entity.Schedule) bool {
		_, ok := byRoute[sc.RouteID]
		return ok && entity.CalendarDate(sc.JourneyDate).Equal(day)
	})
	if err != nil {
		return nil, err
	}

	for _, schedule := range schedules {
		schedule.Route = byRoute[schedule.RouteID]
		if err := s.hydrateSchedule(ctx, schedule); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(schedules, func(i, j int) bool {
		return schedules[i].StartTime < schedules[j].StartTime
	})
	return schedules, nil
}

func (s *MemoryStore) FindScheduleDetails(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil || schedule == nil {
		return nil, err
	}

	if err := s.hydrateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// hydrateSchedule attaches Bus, Route (if missing) and Tickets.
func (s *MemoryStore) hydrateSchedule(ctx context.Context, schedule *entity.Schedule) error {
	bus, err := s.buses.GetByID(ctx, schedule.BusID)
	if err != nil {
		return err
	}
	if bus == nil {
		return apperror.New(apperror.KindInternal, "schedule %s references missing bus %s", schedule.ID, schedule.BusID)
	}
	schedule.Bus = bus

	if schedule.Route == nil {
		route, err := s.routes.GetByID(ctx, schedule.RouteID)
		if err != nil {
			return err
		}
		if route == nil {
			return apperror.New(apperror.KindInternal, "schedule %s references missing route %s", schedule.ID, schedule.RouteID)
		}
		schedule.Route = route
	}

	tickets, err := s.tickets.Query(ctx, func(t *entity.Ticket) bool {
		return t.ScheduleID == schedule.ID
	})
	if err != nil {
		return err
	}
	if tickets == nil {
		tickets = []*entity.Ticket{}
	}
	schedule.Tickets = tickets
	return nil
}

func (s *MemoryStore) FindSeatsByBus(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	seats, err := s.seats.Query(ctx, func(seat *entity.Seat) bool {
		return seat.BusID == busID
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Column < seats[j].Column
	})
	return seats, nil
}

func (s *MemoryStore) FindTicket(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil || ticket == nil {
		return nil, err
	}

	seat, err := s.seats.GetByID(ctx, ticket.SeatID)
	if err != nil {
		return nil, err
	}
	ticket.Seat = seat

	schedule, err := s.schedules.GetByID(ctx, ticket.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		if schedule.Bus, err = s.buses.GetByID(ctx, schedule.BusID); err != nil {
			return nil, err
		}
		if schedule.Route, err = s.routes.GetByID(ctx, schedule.RouteID); err != nil {
			return nil, err
		}
	}
	ticket.Schedule = schedule

	return ticket, nil
}

func (s *MemoryStore) BeginTx(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memoryTx{store: s, held: make(map[string]struct{})}, nil
}

// memoryTx stages ticket writes and applies them atomically on Commit.
type memoryTx struct {
	store   *MemoryStore
	mu      sync.Mutex
	held    map[string]struct{}
	added   []entity.Ticket
	updated []entity.Ticket
	closed  bool
}

func (t *memoryTx) acquire(ctx context.Context, key string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errTxClosed
	}
	if _, ok := t.held[key]; ok {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.store.locks.lock(ctx, key); err != nil {
		return err
	}

	t.mu.Lock()
	t.held[key] = struct{}{}
	t.mu.Unlock()
	return nil
}

func (t *memoryTx) LockSeat(ctx context.Context, scheduleID, seatID uuid.UUID) error {
	return t.acquire(ctx, seatLockKey(scheduleID, seatID))
}

func (t *memoryTx) FindActiveTicket(ctx context.Context, scheduleID, seatID uuid.UUID) (*entity.Ticket, error) {
	t.mu.Lock()
	for i := range t.added {
		staged := t.added[i]
		if staged.ScheduleID == scheduleID && staged.SeatID == seatID && staged.IsActive() {
			t.mu.Unlock()
			return &staged, nil
		}
	}
	t.mu.Unlock()

	active, err := t.store.tickets.Query(ctx, func(ticket *entity.Ticket) bool {
		return ticket.ScheduleID == scheduleID && ticket.SeatID == seatID && ticket.IsActive()
	})
	if err != nil || len(active) == 0 {
		return nil, err
	}
	return active[0], nil
}

func (t *memoryTx) FindTicketForUpdate(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	if err := t.acquire(ctx, "ticket:"+id.String()); err != nil {
		return nil, err
	}
	return t.store.tickets.GetByID(ctx, id)
}

func (t *memoryTx) AddTicket(ctx context.Context, ticket *entity.Ticket) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTxClosed
	}
	t.added = append(t.added, *ticket)
	return nil
}

func (t *memoryTx) UpdateTicket(ctx context.Context, ticket *entity.Ticket) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTxClosed
	}
	t.updated = append(t.updated, *ticket)
	return nil
}

// Commit re-checks the one-live-ticket-per-seat rule under the tickets lock
// and applies all staged writes, or none.
func (t *memoryTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTxClosed
	}
	defer t.closeLocked()

	repo := t.store.tickets
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, ticket := range t.updated {
		if _, ok := repo.data[ticket.ID]; !ok {
			return apperror.New(apperror.KindNotFound, "ticket %s not found", ticket.ID)
		}
	}

	for _, ticket := range t.added {
		if _, exists := repo.data[ticket.ID]; exists {
			return apperror.New(apperror.KindConflict, "ticket %s already exists", ticket.ID)
		}
		if !ticket.IsActive() {
			continue
		}
		for _, existing := range repo.data {
			if existing.ScheduleID == ticket.ScheduleID && existing.SeatID == ticket.SeatID && existing.IsActive() {
				return apperror.New(apperror.KindConflict, "seat %s no longer available", ticket.SeatID)
			}
		}
	}

	for _, ticket := range t.updated {
		repo.data[ticket.ID] = repo.clone(ticket)
	}
	for _, ticket := range t.added {
		repo.data[ticket.ID] = repo.clone(ticket)
		repo.order = append(repo.order, ticket.ID)
	}

	t.store.log.Debug("Transaction committed",
		zap.Int("added", len(t.added)),
		zap.Int("updated", len(t.updated)),
	)
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closeLocked()
	return nil
}

func (t *memoryTx) closeLocked() {
	t.closed = true
	t.added = nil
	t.updated = nil
	for key := range t.held {
		t.store.locks.unlock(key)
	}
	t.held = nil
}
