package engine

// DefaultSlots is the standard nine-slot lineup.
func DefaultSlots() []SlotConfig {
	return []SlotConfig{
		{ID: "QB", Required: PosQB},
		{ID: "RB1", Required: PosRB},
		{ID: "RB2", Required: PosRB},
		{ID: "WR1", Required: PosWR},
		{ID: "WR2", Required: PosWR},
		{ID: "TE", Required: PosTE},
		{ID: "FLEX", Required: PosFLEX},
		{ID: "K", Required: PosK},
		{ID: "DEF", Required: PosDEF},
	}
}

// NewEmptyState builds a roster with the default slots and no players.
func NewEmptyState() State {
	s, _ := NewState(Seed{Slots: DefaultSlots()}) // default registry always validates
	return s
}

// MovesOf returns the PlayerMoved events for one player.
func MovesOf(events []Event, id PlayerID) []Event {
	var out []Event
	for _, event := range events {
		if event.Type == EvtPlayerMoved && event.PlayerID == id {
			out = append(out, event)
		}
	}
	return out
}
