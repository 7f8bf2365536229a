package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragSession(t *testing.T) {
	s := mustState(t, Seed{
		Lineup: map[SlotID]Player{"QB": allen, "RB1": cmc},
		Bench:  []Player{bijan, hurts},
	})

	cases := []struct {
		name    string
		source  string
		target  string
		wantErr error
		wantCmd Command
	}{
		{
			name:    "bench RB onto FLEX",
			source:  string(bijan.ID),
			target:  "FLEX",
			wantCmd: Command{Type: CmdSwap, EndpointA: string(bijan.ID), EndpointB: "FLEX"},
		},
		{
			name:    "slot onto slot",
			source:  "RB1",
			target:  "RB2",
			wantCmd: Command{Type: CmdSwap, EndpointA: "RB1", EndpointB: "RB2"},
		},
		{
			name:    "bench QB onto RB slot rejected",
			source:  string(hurts.ID),
			target:  "RB2",
			wantErr: ErrIncompatiblePosition,
		},
		{
			name:    "bench is not a drop target",
			source:  "RB1",
			target:  string(bijan.ID),
			wantErr: ErrInvalidDropTarget,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d DragSession
			require.NoError(t, d.Begin(s, tc.source))
			src, active := d.Source()
			require.True(t, active)
			require.Equal(t, tc.source, src)

			cmd, err := d.Resolve(s, tc.target)
			_, stillActive := d.Source()
			assert.False(t, stillActive, "drop always ends the drag")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCmd, cmd)
		})
	}
}

func TestDragSession_BeginRejectsBadSources(t *testing.T) {
	s := mustState(t, Seed{Available: []Player{bijan}})
	var d DragSession

	require.ErrorIs(t, d.Begin(s, "RB1"), ErrEmptySwap)
	require.ErrorIs(t, d.Begin(s, string(bijan.ID)), ErrNotInBench)
	require.ErrorIs(t, d.Begin(s, "nope"), ErrUnknownEndpoint)

	_, active := d.Source()
	assert.False(t, active)
}

func TestDragSession_ResolveWithoutBegin(t *testing.T) {
	var d DragSession
	_, err := d.Resolve(NewEmptyState(), "QB")
	require.ErrorIs(t, err, ErrNoDragInProgress)
}

func TestDragSession_StaleSource(t *testing.T) {
	s := mustState(t, Seed{Bench: []Player{bijan}})
	var d DragSession
	require.NoError(t, d.Begin(s, string(bijan.ID)))

	// Another gesture promoted the player before the drop landed.
	_, s, err := Apply(s, Command{Type: CmdPromote, PlayerID: bijan.ID})
	require.NoError(t, err)

	_, err = d.Resolve(s, "RB2")
	require.ErrorIs(t, err, ErrNotInBench)
}

func TestDragSession_DropThenApply(t *testing.T) {
	s := mustState(t, Seed{Lineup: map[SlotID]Player{"FLEX": lamb}, Bench: []Player{bijan}})
	var d DragSession
	require.NoError(t, d.Begin(s, string(bijan.ID)))

	cmd, err := d.Resolve(s, "FLEX")
	require.NoError(t, err)
	_, next, err := Apply(s, cmd)
	require.NoError(t, err)

	assert.Equal(t, bijan.ID, occupant(t, next, "FLEX").ID)
	assert.Equal(t, []PlayerID{lamb.ID}, benchIDs(next))
}
