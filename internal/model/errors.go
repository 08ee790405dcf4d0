package model

import "errors"

// Common errors used across the application. Protocol-path violations
// (out-of-turn actions, stale sessions, role violations) are dropped
// silently by the router; these errors exist so transition functions can
// report exactly why a transition was refused.
var (
	// Registry errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")

	// Role errors
	ErrNotAuthority = errors.New("process is not the session authority")
	ErrAuthorityMsg = errors.New("message is reserved for the authority")

	// Turn / action errors
	ErrNotParticipantTurn   = errors.New("not this participant's turn")
	ErrParticipantNotFound  = errors.New("participant not in session")
	ErrParticipantNotActive = errors.New("participant cannot act")
	ErrSessionEnded         = errors.New("session has ended")
	ErrSessionNotStarted    = errors.New("session has not started")

	// TicTacToe errors
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrCellOutOfRange = errors.New("cell index out of range")

	// Poker errors
	ErrCheckNotAllowed     = errors.New("check requires a matched contribution")
	ErrRaiseBelowMinimum   = errors.New("raise below minimum increment")
	ErrInsufficientPlayers = errors.New("not enough active players")
	ErrTableFull           = errors.New("table is full")
	ErrSeatTaken           = errors.New("peer already seated")
	ErrUnknownAction       = errors.New("unknown betting action")

	// Stats errors
	ErrStatsNotFound = errors.New("no stats recorded")
)
