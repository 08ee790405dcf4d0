package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frodon-community/peergames/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeSessionExists       = "SESSION_EXISTS"
	CodeNotAuthority        = "NOT_AUTHORITY"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeParticipantNotFound = "PARTICIPANT_NOT_FOUND"
	CodeParticipantInactive = "PARTICIPANT_INACTIVE"
	CodeSessionEnded        = "SESSION_ENDED"
	CodeSessionNotStarted   = "SESSION_NOT_STARTED"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeInvalidCell         = "INVALID_CELL"
	CodeCheckNotAllowed     = "CHECK_NOT_ALLOWED"
	CodeRaiseTooSmall       = "RAISE_TOO_SMALL"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeTableFull           = "TABLE_FULL"
	CodeSeatTaken           = "SEAT_TAKEN"
	CodeUnknownAction       = "UNKNOWN_ACTION"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionExists):
		return &httpError{http.StatusConflict, APIError{CodeSessionExists, "Session already exists"}}
	case errors.Is(err, model.ErrNotAuthority):
		return &httpError{http.StatusForbidden, APIError{CodeNotAuthority, "Only the session authority can perform this action"}}
	case errors.Is(err, model.ErrAuthorityMsg):
		return &httpError{http.StatusForbidden, APIError{CodeNotAuthority, "Reserved for the session authority"}}
	case errors.Is(err, model.ErrNotParticipantTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Participant not in session"}}
	case errors.Is(err, model.ErrParticipantNotActive):
		return &httpError{http.StatusConflict, APIError{CodeParticipantInactive, "Participant cannot act"}}
	case errors.Is(err, model.ErrSessionEnded):
		return &httpError{http.StatusConflict, APIError{CodeSessionEnded, "Session has ended"}}
	case errors.Is(err, model.ErrSessionNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeSessionNotStarted, "Session has not started"}}
	case errors.Is(err, model.ErrCellOccupied):
		return &httpError{http.StatusConflict, APIError{CodeCellOccupied, "Cell is already occupied"}}
	case errors.Is(err, model.ErrCellOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCell, "Cell index out of range"}}
	case errors.Is(err, model.ErrCheckNotAllowed):
		return &httpError{http.StatusConflict, APIError{CodeCheckNotAllowed, "Cannot check facing a bet"}}
	case errors.Is(err, model.ErrRaiseBelowMinimum):
		return &httpError{http.StatusBadRequest, APIError{CodeRaiseTooSmall, "Raise below minimum increment"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrTableFull):
		return &httpError{http.StatusConflict, APIError{CodeTableFull, "Table is full"}}
	case errors.Is(err, model.ErrSeatTaken):
		return &httpError{http.StatusConflict, APIError{CodeSeatTaken, "Peer already seated"}}
	case errors.Is(err, model.ErrUnknownAction):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownAction, "Unknown betting action"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
