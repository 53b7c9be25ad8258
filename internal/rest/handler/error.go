package handler

import (
	"errors"
	"net/http"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/lifecycle"
	restTypes "github.com/marketloop/supportd/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// writeError maps a service error onto an HTTP status and JSON body.
// Unknown errors are logged and reported as a plain 500.
func writeError(w http.ResponseWriter, err error, logger *zap.Logger) error {
	var validationErr *lifecycle.ValidationError
	if errors.As(err, &validationErr) {
		w.WriteHeader(http.StatusUnprocessableEntity)

		return bunrouter.JSON(w, restTypes.ErrorResponse{
			Error: validationErr.Message,
			Field: validationErr.Field,
		})
	}

	switch {
	case errors.Is(err, types.ErrTicketNotFound),
		errors.Is(err, types.ErrAdNotFound),
		errors.Is(err, types.ErrAppealNotFound):
		w.WriteHeader(http.StatusNotFound)

	case errors.Is(err, types.ErrTicketClosed),
		errors.Is(err, types.ErrInvalidTransition),
		errors.Is(err, types.ErrReopenExpired),
		errors.Is(err, types.ErrResponseRequired),
		errors.Is(err, types.ErrNotEligible),
		errors.Is(err, types.ErrAlreadyAppealed),
		errors.Is(err, types.ErrAppealDecided):
		w.WriteHeader(http.StatusConflict)

	default:
		logger.Error("Request failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)

		return bunrouter.JSON(w, restTypes.ErrorResponse{Error: "internal server error"})
	}

	return bunrouter.JSON(w, restTypes.ErrorResponse{Error: err.Error()})
}

// badRequest reports a malformed request body or parameter.
func badRequest(w http.ResponseWriter, message string) error {
	w.WriteHeader(http.StatusBadRequest)

	return bunrouter.JSON(w, restTypes.ErrorResponse{Error: message})
}
