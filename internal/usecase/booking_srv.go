package usecase

import (
	"context"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/apperror"
	"bus-booking/pkg/events"
	"bus-booking/pkg/metrics"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	ReserveSeat(ctx context.Context, req *request.ReserveSeatRequest) (*response.TicketResponse, error)
	// ReserveSeats reserves each seat independently; one seat failing does
	// not undo the others.
	ReserveSeats(ctx context.Context, req *request.ReserveSeatsRequest) (*response.BatchReservationResponse, error)
	GetTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error)
	CancelTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error)
	ConfirmTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error)
}

type bookingService struct {
	store     repository.Store
	clock     utils.Clock
	publisher events.Publisher
	config    utils.BookingConfig
	log       *zap.Logger
}

func NewBookingService(
	store repository.Store,
	clock utils.Clock,
	publisher events.Publisher,
	config utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		store:     store,
		clock:     clock,
		publisher: publisher,
		config:    config,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) ReserveSeat(ctx context.Context, req *request.ReserveSeatRequest) (resp *response.TicketResponse, err error) {
	defer func() { metrics.Reservations.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve seat validation failed", zap.Any("errors", errs))
		return nil, apperror.New(apperror.KindInvalidArgument, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid schedule ID format %s", req.ScheduleID)
	}
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid seat ID format %s", req.SeatID)
	}

	schedule, err := s.loadSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	return s.reserve(ctx, schedule, seatID, req.PassengerDetails)
}

func (s *bookingService) ReserveSeats(ctx context.Context, req *request.ReserveSeatsRequest) (*response.BatchReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve seats validation failed", zap.Any("errors", errs))
		return nil, apperror.New(apperror.KindInvalidArgument, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if len(req.SeatIDs) > s.config.MaxBatchSeats {
		return nil, apperror.New(apperror.KindInvalidArgument, "at most %d seats can be reserved at once", s.config.MaxBatchSeats)
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid schedule ID format %s", req.ScheduleID)
	}

	schedule, err := s.loadSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	result := &response.BatchReservationResponse{
		Tickets: []response.TicketResponse{},
		Failed:  []response.SeatFailure{},
	}

	for _, raw := range req.SeatIDs {
		ticket, err := s.reserveRaw(ctx, schedule, raw, req.PassengerDetails)
		metrics.Reservations.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			result.Failed = append(result.Failed, response.SeatFailure{
				SeatID:  raw,
				Reason:  string(apperror.KindOf(err)),
				Message: err.Error(),
			})
			continue
		}
		result.Tickets = append(result.Tickets, *ticket)
	}

	s.log.Info("Batch reservation finished",
		zap.String("schedule_id", req.ScheduleID),
		zap.Int("requested", len(req.SeatIDs)),
		zap.Int("reserved", len(result.Tickets)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

func (s *bookingService) reserveRaw(ctx context.Context, schedule *entity.Schedule, rawSeatID string, passenger request.PassengerDetails) (*response.TicketResponse, error) {
	seatID, err := uuid.Parse(rawSeatID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid seat ID format %s", rawSeatID)
	}
	return s.reserve(ctx, schedule, seatID, passenger)
}

// loadSchedule fetches the schedule with its bus and route.
func (s *bookingService) loadSchedule(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	schedule, err := s.store.FindScheduleDetails(ctx, id)
	if err != nil {
		s.log.Error("Failed to load schedule", zap.Error(err), zap.String("schedule_id", id.String()))
		return nil, apperror.Ensure(apperror.KindUnavailable, err, "load schedule %s", id.String())
	}
	if schedule == nil {
		return nil, apperror.New(apperror.KindNotFound, "schedule %s not found", id.String())
	}
	return schedule, nil
}

// reserve checks the seat preconditions and then, holding the seat lock,
// verifies the seat is free and inserts the ticket.
func (s *bookingService) reserve(ctx context.Context, schedule *entity.Schedule, seatID uuid.UUID, passenger request.PassengerDetails) (*response.TicketResponse, error) {
	seat, err := s.store.Seats().GetByID(ctx, seatID)
	if err != nil {
		s.log.Error("Failed to load seat", zap.Error(err), zap.String("seat_id", seatID.String()))
		return nil, apperror.Ensure(apperror.KindUnavailable, err, "load seat %s", seatID.String())
	}
	if seat == nil {
		return nil, apperror.New(apperror.KindNotFound, "seat %s not found", seatID.String())
	}
	if seat.BusID != schedule.BusID {
		return nil, apperror.New(apperror.KindInvalidArgument, "seat %s does not belong to the bus of schedule %s", seat.SeatNumber, schedule.ID)
	}

	if !schedule.Route.HasBoardingPoint(passenger.BoardingPoint) {
		return nil, apperror.New(apperror.KindInvalidArgument, "boarding point %q is not on this route", passenger.BoardingPoint)
	}
	if !schedule.Route.HasDroppingPoint(passenger.DroppingPoint) {
		return nil, apperror.New(apperror.KindInvalidArgument, "dropping point %q is not on this route", passenger.DroppingPoint)
	}

	now := s.clock.Now().UTC()
	if entity.CalendarDate(schedule.JourneyDate).Before(entity.DateOf(now)) {
		return nil, apperror.New(apperror.KindInvalidState, "cannot book schedule %s: journey date has passed", schedule.ID)
	}

	status := entity.TicketStatusPending
	if s.config.ConfirmOnReserve {
		status = entity.TicketStatusConfirmed
	}

	ticket := &entity.Ticket{
		Base:          entity.NewBase(now),
		ScheduleID:    schedule.ID,
		SeatID:        seat.ID,
		PassengerName: passenger.PassengerName,
		MobileNumber:  passenger.MobileNumber,
		BoardingPoint: passenger.BoardingPoint,
		DroppingPoint: passenger.DroppingPoint,
		BookedAt:      now,
		Status:        status,
	}

	err = repository.WithinTx(ctx, s.store, s.log, func(tx repository.Tx) error {
		if err := tx.LockSeat(ctx, schedule.ID, seat.ID); err != nil {
			return err
		}

		existing, err := tx.FindActiveTicket(ctx, schedule.ID, seat.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.New(apperror.KindConflict, "seat %s no longer available", seat.SeatNumber)
		}

		return tx.AddTicket(ctx, ticket)
	})
	if err != nil {
		err = apperror.Ensure(apperror.KindUnavailable, err, "reserve seat %s", seat.SeatNumber)
		if apperror.KindOf(err) == apperror.KindConflict {
			s.log.Info("Seat already taken",
				zap.String("schedule_id", schedule.ID.String()),
				zap.String("seat_number", seat.SeatNumber),
			)
		} else {
			s.log.Error("Failed to reserve seat",
				zap.Error(err),
				zap.String("schedule_id", schedule.ID.String()),
				zap.String("seat_id", seat.ID.String()),
			)
		}
		return nil, err
	}

	s.log.Info("Ticket reserved",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("seat_number", seat.SeatNumber),
		zap.String("status", string(ticket.Status)),
	)
	s.publish(ctx, events.TopicTicketReserved, ticket)

	resp := response.TicketToResponse(ticket, schedule, seat)
	return &resp, nil
}

func (s *bookingService) GetTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid ticket ID format %s", ticketID)
	}

	ticket, err := s.store.FindTicket(ctx, id)
	if err != nil {
		s.log.Error("Failed to get ticket", zap.Error(err), zap.String("ticket_id", ticketID))
		return nil, apperror.Ensure(apperror.KindUnavailable, err, "get ticket %s", ticketID)
	}
	if ticket == nil {
		return nil, apperror.New(apperror.KindNotFound, "ticket %s not found", ticketID)
	}

	resp := response.TicketToResponse(ticket, ticket.Schedule, ticket.Seat)
	return &resp, nil
}

// CancelTicket releases the seat. The ticket row is kept with status cancelled.
func (s *bookingService) CancelTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	return s.transition(ctx, ticketID, entity.TicketStatusCancelled, events.TopicTicketCancelled)
}

func (s *bookingService) ConfirmTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	return s.transition(ctx, ticketID, entity.TicketStatusConfirmed, events.TopicTicketConfirmed)
}

func (s *bookingService) transition(ctx context.Context, ticketID string, next entity.TicketStatus, topic string) (resp *response.TicketResponse, err error) {
	defer func() { metrics.TicketTransitions.WithLabelValues(string(next), metrics.Outcome(err)).Inc() }()

	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidArgument, err, "invalid ticket ID format %s", ticketID)
	}

	var updated *entity.Ticket
	err = repository.WithinTx(ctx, s.store, s.log, func(tx repository.Tx) error {
		ticket, err := tx.FindTicketForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ticket == nil {
			return apperror.New(apperror.KindNotFound, "ticket %s not found", ticketID)
		}
		if !ticket.CanTransitionTo(next) {
			return apperror.New(apperror.KindInvalidState, "ticket %s is %s and cannot become %s", ticketID, ticket.Status, next)
		}

		ticket.Status = next
		ticket.UpdatedAt = s.clock.Now().UTC()
		updated = ticket
		return tx.UpdateTicket(ctx, ticket)
	})
	if err != nil {
		err = apperror.Ensure(apperror.KindUnavailable, err, "update ticket %s", ticketID)
		if apperror.KindOf(err) == apperror.KindUnavailable {
			s.log.Error("Failed to update ticket", zap.Error(err), zap.String("ticket_id", ticketID))
		} else {
			s.log.Warn("Ticket status change rejected", zap.Error(err), zap.String("ticket_id", ticketID))
		}
		return nil, err
	}

	s.log.Info("Ticket status changed",
		zap.String("ticket_id", ticketID),
		zap.String("status", string(next)),
	)
	s.publish(ctx, topic, updated)

	return s.GetTicket(ctx, ticketID)
}

// publish runs after commit; a failed notification never undoes the change.
func (s *bookingService) publish(ctx context.Context, topic string, ticket *entity.Ticket) {
	event := events.TicketEvent{
		TicketID:   ticket.ID.String(),
		ScheduleID: ticket.ScheduleID.String(),
		SeatID:     ticket.SeatID.String(),
		Status:     string(ticket.Status),
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.log.Warn("Failed to publish ticket event", zap.Error(err), zap.String("topic", topic))
	}
}
