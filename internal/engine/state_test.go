package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_Validation(t *testing.T) {
	cases := []struct {
		name string
		seed Seed
	}{
		{name: "empty registry", seed: Seed{}},
		{name: "duplicate slot", seed: Seed{Slots: []SlotConfig{{ID: "RB", Required: PosRB}, {ID: "RB", Required: PosRB}}}},
		{name: "unknown slot position", seed: Seed{Slots: []SlotConfig{{ID: "LB", Required: "LB"}}}},
		{name: "FLEX player", seed: Seed{Slots: DefaultSlots(), Bench: []Player{NewPlayer("Util", "NYJ", PosFLEX, 1, "")}}},
		{name: "negative projection", seed: Seed{Slots: DefaultSlots(), Bench: []Player{NewPlayer("Bust", "NYJ", PosWR, -1, "")}}},
		{name: "player twice", seed: Seed{Slots: DefaultSlots(), Bench: []Player{cmc}, Available: []Player{cmc}}},
		{name: "lineup and bench", seed: Seed{Slots: DefaultSlots(), Lineup: map[SlotID]Player{"RB1": cmc}, Bench: []Player{cmc}}},
		{name: "incompatible occupant", seed: Seed{Slots: DefaultSlots(), Lineup: map[SlotID]Player{"FLEX": allen}}},
		{name: "lineup references unknown slot", seed: Seed{Slots: DefaultSlots(), Lineup: map[SlotID]Player{"SUPERFLEX": allen}}},
		{name: "player id collides with slot id", seed: Seed{Slots: []SlotConfig{{ID: "josh-allen-buf", Required: PosQB}}, Bench: []Player{allen}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewState(tc.seed)
			require.ErrorIs(t, err, ErrInvalidRoster)
		})
	}
}

func TestNewState_TotalsAndOrder(t *testing.T) {
	s := mustState(t, Seed{
		Lineup:    map[SlotID]Player{"QB": allen, "RB1": cmc},
		Bench:     []Player{kelce, bijan},
		Available: []Player{lamb},
	})

	assert.Equal(t, 44.75, s.ProjectedTotal)
	assert.Len(t, s.Slots, len(DefaultSlots()))
	assert.Equal(t, DefaultSlots(), s.SlotConfigs())
	assert.Equal(t, []PlayerID{kelce.ID, bijan.ID}, benchIDs(s))
	assert.Equal(t, []Player{allen, cmc}, s.Lineup())
}

func TestClone_IsDeep(t *testing.T) {
	s := mustState(t, Seed{Lineup: map[SlotID]Player{"QB": allen}, Bench: []Player{kelce}})
	c := s.Clone()

	c.Slots[0].Occupant.Name = "changed"
	c.Bench[0].Name = "changed"

	assert.Equal(t, "Josh Allen", s.Slots[0].Occupant.Name)
	assert.Equal(t, "Travis Kelce", s.Bench[0].Name)
}

func TestLocate(t *testing.T) {
	s := mustState(t, Seed{
		Lineup:    map[SlotID]Player{"TE": kelce},
		Bench:     []Player{bijan},
		Available: []Player{lamb},
	})

	_, loc, ok := s.Locate(kelce.ID)
	require.True(t, ok)
	assert.Equal(t, Location{Container: ContainerSlot, SlotID: "TE", Index: 5}, loc)

	_, loc, ok = s.Locate(bijan.ID)
	require.True(t, ok)
	assert.Equal(t, ContainerBench, loc.Container)

	_, loc, ok = s.Locate(lamb.ID)
	require.True(t, ok)
	assert.Equal(t, ContainerAvailable, loc.Container)

	_, _, ok = s.Locate("missing-xx")
	assert.False(t, ok)
}

func TestCandidatesForSlot(t *testing.T) {
	s := mustState(t, Seed{
		Bench:     []Player{allen, bijan, kelce},
		Available: []Player{lamb, tucker, barkley},
	})

	flex, err := CandidatesForSlot(s, "FLEX")
	require.NoError(t, err)
	assert.Equal(t, []Player{bijan, kelce, lamb, barkley}, flex)

	qb, err := CandidatesForSlot(s, "QB")
	require.NoError(t, err)
	assert.Equal(t, []Player{allen}, qb)

	_, err = CandidatesForSlot(s, "BN")
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestCheckInvariant(t *testing.T) {
	s := mustState(t, Seed{Lineup: map[SlotID]Player{"RB1": cmc}, Bench: []Player{bijan}})
	require.NoError(t, CheckInvariant(s))

	broken := s.Clone()
	broken.Available = append(broken.Available, cmc)
	require.ErrorIs(t, CheckInvariant(broken), ErrInvalidRoster)

	misplaced := s.Clone()
	qb := allen
	misplaced.Slots[1].Occupant = &qb
	require.ErrorIs(t, CheckInvariant(misplaced), ErrInvalidRoster)
}
