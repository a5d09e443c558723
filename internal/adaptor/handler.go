package adaptor

import (
	"net/http"

	"bus-booking/internal/usecase"
	"bus-booking/pkg/apperror"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Trip   *TripHandler
	Ticket *TicketHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Trip:   NewTripHandler(service.Search, service.Trip, log),
		Ticket: NewTicketHandler(service.Booking, log),
	}
}

// handleServiceError maps a service error to its HTTP status. Client errors
// are logged at warn, everything else at error.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()
	kind := apperror.KindOf(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", string(kind)),
	}

	switch kind {
	case apperror.KindInvalidArgument:
		log.Warn("Invalid input for "+operation, fields...)
		utils.ResponseBadRequest(w, errMsg, nil)

	case apperror.KindNotFound:
		log.Warn(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, errMsg)

	case apperror.KindConflict:
		log.Warn(operation+" failed - conflict", fields...)
		utils.ResponseConflict(w, errMsg)

	case apperror.KindInvalidState:
		log.Warn(operation+" failed - invalid state", fields...)
		utils.ResponseUnprocessable(w, errMsg)

	case apperror.KindUnavailable:
		log.Error(operation+" failed - store unavailable", fields...)
		utils.ResponseUnavailable(w, "Service temporarily unavailable")

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}
