package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/present"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/session"
)

func TestClientMessage_Gesture(t *testing.T) {
	g, ok := ClientMessage{Type: "Assign", PlayerID: "ceedee-lamb-dal", SlotID: "WR1"}.Gesture()
	require.True(t, ok)
	assert.Equal(t, session.Gesture{Type: session.GestureAssign, PlayerID: "ceedee-lamb-dal", SlotID: "WR1"}, g)

	g, ok = ClientMessage{Type: "Drop", TargetID: "FLEX"}.Gesture()
	require.True(t, ok)
	assert.Equal(t, "FLEX", g.TargetID)

	_, ok = ClientMessage{Type: "LockPick"}.Gesture()
	assert.False(t, ok)
}

func TestFromSnapshot(t *testing.T) {
	view := present.BuildView(engine.NewEmptyState(), "", engine.SearchSubstring)
	ok := present.Notification{Message: "Players swapped!", Kind: present.KindSuccess}

	msgs := FromSnapshot("ABC123", session.Snapshot{Version: 3, View: view, Notification: &ok})
	require.Len(t, msgs, 2)
	assert.Equal(t, MsgStateSnapshot, msgs[0].Type)
	assert.Equal(t, "ABC123", msgs[0].SessionCode)
	assert.Equal(t, 3, msgs[0].Version)
	assert.Equal(t, MsgNotification, msgs[1].Type)

	msgs = FromSnapshot("ABC123", session.Snapshot{Version: 3, View: view})
	require.Len(t, msgs, 1)

	fail := present.Notification{Message: "Nothing to swap", Kind: present.KindError}
	msgs = FromSnapshot("ABC123", session.Snapshot{Version: 3, View: view, Notification: &fail, Rejected: true, Code: "empty_swap"})
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgNotification, msgs[0].Type)
	assert.Equal(t, "empty_swap", msgs[0].Code)
}

func TestFromSnapshot_InitialVersionIsEncoded(t *testing.T) {
	view := present.BuildView(engine.NewEmptyState(), "", engine.SearchSubstring)
	msgs := FromSnapshot("ABC123", session.Snapshot{Version: 0, View: view})
	require.Len(t, msgs, 1)

	raw, err := json.Marshal(msgs[0])
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.Contains(t, fields, "version")
	assert.JSONEq(t, "0", string(fields["version"]))
}
