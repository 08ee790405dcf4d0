package handler

import (
	"net/http"

	"github.com/frodon-community/peergames/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest      = apierr.CodeInvalidRequest
	CodeSessionNotFound     = apierr.CodeSessionNotFound
	CodeSessionExists       = apierr.CodeSessionExists
	CodeNotAuthority        = apierr.CodeNotAuthority
	CodeNotYourTurn         = apierr.CodeNotYourTurn
	CodeParticipantNotFound = apierr.CodeParticipantNotFound
	CodeParticipantInactive = apierr.CodeParticipantInactive
	CodeSessionEnded        = apierr.CodeSessionEnded
	CodeSessionNotStarted   = apierr.CodeSessionNotStarted
	CodeCellOccupied        = apierr.CodeCellOccupied
	CodeInvalidCell         = apierr.CodeInvalidCell
	CodeCheckNotAllowed     = apierr.CodeCheckNotAllowed
	CodeRaiseTooSmall       = apierr.CodeRaiseTooSmall
	CodeInsufficientPlayers = apierr.CodeInsufficientPlayers
	CodeTableFull           = apierr.CodeTableFull
	CodeSeatTaken           = apierr.CodeSeatTaken
	CodeUnknownAction       = apierr.CodeUnknownAction
	CodeInternalError       = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
