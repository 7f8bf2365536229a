package engine

import "fmt"

// CandidatesForSlot lists the players the selection dialog offers for a slot:
// bench players first, then the available pool, keeping container order and
// skipping anyone who cannot play the slot.
func CandidatesForSlot(s State, slotID SlotID) ([]Player, error) {
	slot, ok := s.Slot(slotID)
	if !ok {
		return nil, &TransferError{Kind: ErrUnknownSlot, SlotID: slotID}
	}

	var out []Player
	for _, p := range s.Bench {
		if IsCompatible(p.Position, slot.Required) {
			out = append(out, p)
		}
	}
	for _, p := range s.Available {
		if IsCompatible(p.Position, slot.Required) {
			out = append(out, p)
		}
	}
	return out, nil
}

// CheckInvariant verifies that no player sits in two containers and that
// every occupant can play its slot.
func CheckInvariant(s State) error {
	seen := make(map[PlayerID]Location)
	place := func(p Player, loc Location) error {
		if prev, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: player %q in both %s and %s", ErrInvalidRoster, p.ID, prev.Container, loc.Container)
		}
		seen[p.ID] = loc
		return nil
	}

	for i, slot := range s.Slots {
		if slot.Occupant == nil {
			continue
		}
		if !IsCompatible(slot.Occupant.Position, slot.Required) {
			return fmt.Errorf("%w: %s %q in %s slot %q", ErrInvalidRoster, slot.Occupant.Position, slot.Occupant.ID, slot.Required, slot.ID)
		}
		if err := place(*slot.Occupant, Location{Container: ContainerSlot, SlotID: slot.ID, Index: i}); err != nil {
			return err
		}
	}
	for i, p := range s.Bench {
		if err := place(p, Location{Container: ContainerBench, Index: i}); err != nil {
			return err
		}
	}
	for i, p := range s.Available {
		if err := place(p, Location{Container: ContainerAvailable, Index: i}); err != nil {
			return err
		}
	}
	return nil
}

// PlayerIDs returns every player id in the roster, lineup first.
func PlayerIDs(s State) []PlayerID {
	ids := make([]PlayerID, 0, len(s.Slots)+len(s.Bench)+len(s.Available))
	for _, p := range s.Lineup() {
		ids = append(ids, p.ID)
	}
	for _, p := range s.Bench {
		ids = append(ids, p.ID)
	}
	for _, p := range s.Available {
		ids = append(ids, p.ID)
	}
	return ids
}
