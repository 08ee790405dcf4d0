package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frodon-community/peergames/internal/model"
)

func TestNewAssignsUniqueMsgIDs(t *testing.T) {
	a := New(TypeMove, "s1")
	b := New(TypeMove, "s1")

	assert.NotEmpty(t, a.MsgID)
	assert.NotEqual(t, a.MsgID, b.MsgID)
}

func TestRoleBinding(t *testing.T) {
	// Every type is bound to at most one direction
	all := []Type{
		TypeChallenge, TypeRematch, TypeMove, TypeForfeit,
		TypeInvite, TypeInviteAccept, TypeInviteDecline,
		TypeAction, TypeStateSync, TypeHand, TypeShowdown,
		TypeResync, TypeLeave, TypeKick, TypeReplaceNotify,
	}
	for _, typ := range all {
		assert.False(t, typ.AuthorityBound() && typ.ParticipantBound(), string(typ))
	}

	assert.True(t, TypeAction.AuthorityBound())
	assert.True(t, TypeResync.AuthorityBound())
	assert.True(t, TypeStateSync.ParticipantBound())
	assert.True(t, TypeInvite.ParticipantBound())

	// Moves and forfeits travel both ways on the mirrored board
	assert.False(t, TypeMove.AuthorityBound())
	assert.False(t, TypeMove.ParticipantBound())
}

func TestCreatesSession(t *testing.T) {
	assert.True(t, TypeChallenge.CreatesSession())
	assert.True(t, TypeRematch.CreatesSession())
	assert.True(t, TypeInvite.CreatesSession())
	assert.False(t, TypeAction.CreatesSession())
	assert.False(t, TypeStateSync.CreatesSession())
}

func TestCodecRoundTrip(t *testing.T) {
	msg := New(TypeAction, "pk_1")
	msg.Action = &ActionPayload{Action: model.ActionRaise, Amount: 60}

	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, msg.MsgID, decoded.MsgID)
	assert.Equal(t, TypeAction, decoded.Type)
	require.NotNil(t, decoded.Action)
	assert.Equal(t, model.ActionRaise, decoded.Action.Action)
	assert.Equal(t, int64(60), decoded.Action.Amount)
	assert.Nil(t, decoded.Move)
	assert.Nil(t, decoded.Sync)
}

func TestDecodeRejectsMissingType(t *testing.T) {
	_, err := Decode([]byte(`{"session_id":"s1","msg_id":"m1"}`))
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestUnsetPayloadsOmittedFromWire(t *testing.T) {
	msg := New(TypeMove, "ttc_1")
	msg.Move = &MovePayload{Cell: 4}

	data, err := Encode(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "invite")
	assert.NotContains(t, string(data), "sync")
	assert.Contains(t, string(data), `"cell":4`)
}
