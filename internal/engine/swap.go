package engine

type endpointKind int

const (
	endpointSlot endpointKind = iota
	endpointBench
)

type endpoint struct {
	kind  endpointKind
	index int
	side  Side
}

// resolveEndpoint maps a swap endpoint id onto a slot (by slot id) or a bench
// entry (by player id). Players in the available pool are not endpoints.
func resolveEndpoint(s State, id string, side Side) (endpoint, error) {
	if i := s.slotIndex(SlotID(id)); i >= 0 {
		return endpoint{kind: endpointSlot, index: i, side: side}, nil
	}
	if i := s.benchIndex(PlayerID(id)); i >= 0 {
		return endpoint{kind: endpointBench, index: i, side: side}, nil
	}
	if p, loc, ok := s.Locate(PlayerID(id)); ok {
		return endpoint{}, &TransferError{Kind: ErrNotInBench, PlayerID: p.ID, SlotID: loc.SlotID, Position: p.Position, Side: side}
	}
	return endpoint{}, &TransferError{Kind: ErrUnknownEndpoint, PlayerID: PlayerID(id), Side: side}
}

func swap(s State, idA, idB string) ([]Event, State, error) {
	a, err := resolveEndpoint(s, idA, SideA)
	if err != nil {
		return nil, s, err
	}
	b, err := resolveEndpoint(s, idB, SideB)
	if err != nil {
		return nil, s, err
	}
	if a.kind == b.kind && a.index == b.index {
		return nil, s, nil
	}

	switch {
	case a.kind == endpointSlot && b.kind == endpointSlot:
		return swapSlots(s, a, b)
	case a.kind == endpointSlot && b.kind == endpointBench:
		return swapSlotBench(s, a, b)
	case a.kind == endpointBench && b.kind == endpointSlot:
		return swapSlotBench(s, b, a)
	default:
		return swapBench(s, a, b)
	}
}

func swapSlots(s State, a, b endpoint) ([]Event, State, error) {
	slotA, slotB := s.Slots[a.index], s.Slots[b.index]
	if slotA.Empty() && slotB.Empty() {
		return nil, s, &TransferError{Kind: ErrEmptySwap, SlotID: slotA.ID}
	}
	if occ := slotA.Occupant; occ != nil && !IsCompatible(occ.Position, slotB.Required) {
		return nil, s, &TransferError{Kind: ErrIncompatiblePosition, PlayerID: occ.ID, SlotID: slotB.ID, Position: occ.Position, Side: a.side}
	}
	if occ := slotB.Occupant; occ != nil && !IsCompatible(occ.Position, slotA.Required) {
		return nil, s, &TransferError{Kind: ErrIncompatiblePosition, PlayerID: occ.ID, SlotID: slotA.ID, Position: occ.Position, Side: b.side}
	}

	next := s.Clone()
	next.Slots[a.index].Occupant, next.Slots[b.index].Occupant = next.Slots[b.index].Occupant, next.Slots[a.index].Occupant

	locA := Location{Container: ContainerSlot, SlotID: slotA.ID, Index: a.index}
	locB := Location{Container: ContainerSlot, SlotID: slotB.ID, Index: b.index}
	var events []Event
	if slotA.Occupant != nil {
		events = append(events, Event{Type: EvtPlayerMoved, PlayerID: slotA.Occupant.ID, From: locA, To: locB})
	}
	if slotB.Occupant != nil {
		events = append(events, Event{Type: EvtPlayerMoved, PlayerID: slotB.Occupant.ID, From: locB, To: locA})
	}
	return events, next, nil
}

// swapSlotBench moves the bench player into the slot; the previous occupant,
// if any, takes the bench player's place in bench order.
func swapSlotBench(s State, slotEnd, benchEnd endpoint) ([]Event, State, error) {
	slot := s.Slots[slotEnd.index]
	benched := s.Bench[benchEnd.index]
	if !IsCompatible(benched.Position, slot.Required) {
		return nil, s, &TransferError{Kind: ErrIncompatiblePosition, PlayerID: benched.ID, SlotID: slot.ID, Position: benched.Position, Side: benchEnd.side}
	}

	next := s.Clone()
	slotLoc := Location{Container: ContainerSlot, SlotID: slot.ID, Index: slotEnd.index}
	benchLoc := Location{Container: ContainerBench, Index: benchEnd.index}

	var events []Event
	if prev := slot.Occupant; prev != nil {
		next.Bench[benchEnd.index] = *prev
		events = append(events, Event{Type: EvtPlayerMoved, PlayerID: prev.ID, From: slotLoc, To: benchLoc})
	} else {
		next.Bench = append(next.Bench[:benchEnd.index], next.Bench[benchEnd.index+1:]...)
	}
	next.Slots[slotEnd.index].Occupant = &benched
	events = append(events, Event{Type: EvtPlayerMoved, PlayerID: benched.ID, From: benchLoc, To: slotLoc})
	return events, next, nil
}

func swapBench(s State, a, b endpoint) ([]Event, State, error) {
	next := s.Clone()
	next.Bench[a.index], next.Bench[b.index] = next.Bench[b.index], next.Bench[a.index]

	locA := Location{Container: ContainerBench, Index: a.index}
	locB := Location{Container: ContainerBench, Index: b.index}
	events := []Event{
		{Type: EvtPlayerMoved, PlayerID: s.Bench[a.index].ID, From: locA, To: locB},
		{Type: EvtPlayerMoved, PlayerID: s.Bench[b.index].ID, From: locB, To: locA},
	}
	return events, next, nil
}
