package engine

import "testing"

func TestIsCompatible(t *testing.T) {
	cases := []struct {
		player, slot Position
		want         bool
	}{
		{PosQB, PosQB, true},
		{PosRB, PosRB, true},
		{PosK, PosK, true},
		{PosDEF, PosDEF, true},
		{PosRB, PosFLEX, true},
		{PosWR, PosFLEX, true},
		{PosTE, PosFLEX, true},
		{PosQB, PosFLEX, false},
		{PosK, PosFLEX, false},
		{PosDEF, PosFLEX, false},
		{PosRB, PosWR, false},
		{PosWR, PosTE, false},
		{PosTE, PosQB, false},
		// FLEX is never a player position, so a "FLEX player" fits nowhere.
		{PosFLEX, PosFLEX, false},
		{PosFLEX, PosRB, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.player)+"_in_"+string(tc.slot), func(t *testing.T) {
			if got := IsCompatible(tc.player, tc.slot); got != tc.want {
				t.Fatalf("IsCompatible(%s, %s): got %v, want %v", tc.player, tc.slot, got, tc.want)
			}
		})
	}
}

func TestPositionSets(t *testing.T) {
	for _, p := range PlayerPositions {
		if !p.IsPlayerPosition() || !p.IsSlotPosition() {
			t.Fatalf("%s should be valid for players and slots", p)
		}
	}
	if PosFLEX.IsPlayerPosition() {
		t.Fatalf("FLEX must not be a player position")
	}
	if !PosFLEX.IsSlotPosition() {
		t.Fatalf("FLEX must be a slot position")
	}
	if len(SlotPositions) != len(PlayerPositions)+1 {
		t.Fatalf("slot positions should be player positions plus FLEX, got %v", SlotPositions)
	}
}

func TestParsePosition(t *testing.T) {
	cases := map[string]Position{
		"qb":   PosQB,
		" RB ": PosRB,
		"D/ST": PosDEF,
		"dst":  PosDEF,
		"PK":   PosK,
		"flex": PosFLEX,
	}
	for raw, want := range cases {
		got, ok := ParsePosition(raw)
		if !ok || got != want {
			t.Fatalf("ParsePosition(%q): got %q,%v want %q", raw, got, ok, want)
		}
	}
	if _, ok := ParsePosition("LB"); ok {
		t.Fatalf("LB is not a fantasy position here")
	}
}

func TestMakePlayerID(t *testing.T) {
	cases := []struct {
		name, team string
		want       PlayerID
	}{
		{"Josh Allen", "BUF", "josh-allen-buf"},
		{"Ja'Marr Chase", "CIN", "ja-marr-chase-cin"},
		{"  Amon-Ra St. Brown ", "DET", "amon-ra-st-brown-det"},
	}
	for _, tc := range cases {
		if got := MakePlayerID(tc.name, tc.team); got != tc.want {
			t.Fatalf("MakePlayerID(%q, %q): got %q, want %q", tc.name, tc.team, got, tc.want)
		}
	}
}
