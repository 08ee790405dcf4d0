package protocol

import (
	"github.com/google/uuid"

	"github.com/frodon-community/peergames/internal/model"
)

// Type discriminates the message union. The router switches over every
// variant; adding a type means adding a router arm.
type Type string

const (
	// Two-party game. Move and forfeit are symmetric: both sides apply
	// them to their mirrored board.
	TypeChallenge Type = "challenge"
	TypeRematch   Type = "rematch"
	TypeMove      Type = "move"
	TypeForfeit   Type = "forfeit"

	// Multi-party table
	TypeInvite        Type = "invite"
	TypeInviteAccept  Type = "invite_accept"
	TypeInviteDecline Type = "invite_decline"
	TypeAction        Type = "action"
	TypeStateSync     Type = "state_sync"
	TypeHand          Type = "hand"
	TypeShowdown      Type = "showdown"
	TypeResync        Type = "resync"
	TypeLeave         Type = "leave"
	TypeKick          Type = "kick"
	TypeReplaceNotify Type = "replace_notify"
)

// AuthorityBound reports whether the type may only be handled by the
// session authority (participant -> authority direction).
func (t Type) AuthorityBound() bool {
	switch t {
	case TypeAction, TypeResync, TypeLeave, TypeInviteAccept, TypeInviteDecline:
		return true
	}
	return false
}

// ParticipantBound reports whether the type may only be handled by a
// non-authority participant (authority -> participant direction).
func (t Type) ParticipantBound() bool {
	switch t {
	case TypeStateSync, TypeHand, TypeShowdown, TypeKick, TypeReplaceNotify, TypeInvite:
		return true
	}
	return false
}

// CreatesSession reports whether the type may reference a session id not
// yet in the registry. Everything else referencing an unknown session is
// dropped as stale.
func (t Type) CreatesSession() bool {
	switch t {
	case TypeChallenge, TypeRematch, TypeInvite:
		return true
	}
	return false
}

// Message is the wire envelope. Exactly one payload pointer is set,
// matching Type; the rest stay nil and are omitted from JSON.
type Message struct {
	Type      Type            `json:"type"`
	SessionID model.SessionID `json:"session_id"`
	// MsgID deduplicates redelivered envelopes; the transport guarantees
	// neither uniqueness nor single delivery.
	MsgID string `json:"msg_id"`

	Move     *MovePayload          `json:"move,omitempty"`
	Invite   *InvitePayload        `json:"invite,omitempty"`
	Action   *ActionPayload        `json:"action,omitempty"`
	Sync     *SyncPayload          `json:"sync,omitempty"`
	Hand     *HandPayload          `json:"hand,omitempty"`
	Showdown *model.ShowdownResult `json:"showdown,omitempty"`
	Replace  *ReplacePayload       `json:"replace,omitempty"`
}

// New creates an envelope with a fresh message id
func New(t Type, session model.SessionID) Message {
	return Message{Type: t, SessionID: session, MsgID: uuid.NewString()}
}

// MovePayload marks a cell on the two-party board
type MovePayload struct {
	Cell int `json:"cell"`
}

// InvitePayload proposes a table and its current seat list. It doubles
// as the replacement onboarding message: the incoming peer receives the
// full seat list mid-session.
type InvitePayload struct {
	FromName string               `json:"from_name"`
	Config   model.TableConfig    `json:"config"`
	Players  []*model.Participant `json:"players"`
}

// ActionPayload submits a betting action to the authority
type ActionPayload struct {
	Action model.PokerAction `json:"action"`
	Amount int64             `json:"amount,omitempty"`
}

// SyncPayload pushes the canonical public table state
type SyncPayload struct {
	Public model.PokerPublic `json:"public"`
}

// HandPayload pushes one participant's private cards
type HandPayload struct {
	Cards []model.Card `json:"cards"`
}

// ReplacePayload announces a seat identity swap to the remaining players
type ReplacePayload struct {
	OldID   model.PeerID `json:"old_id"`
	OldName string       `json:"old_name"`
	NewID   model.PeerID `json:"new_id"`
	NewName string       `json:"new_name"`
	Avatar  string       `json:"avatar,omitempty"`
}
