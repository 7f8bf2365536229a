package engine

import "slices"

type CommandType string

const (
	CmdPromote CommandType = "Promote"
	CmdAcquire CommandType = "Acquire"
	CmdAssign  CommandType = "Assign"
	CmdSwap    CommandType = "Swap"
)

/*
	CmdPromote -> EvtPlayerMoved (bench -> slot) -> EvtTotalRecomputed
	CmdAcquire -> EvtPlayerMoved (available -> bench) -> EvtTotalRecomputed
	CmdAssign  -> [EvtPlayerMoved (slot -> bench) for the displaced occupant]
	              -> EvtPlayerMoved (bench|available -> slot) -> EvtTotalRecomputed
	CmdSwap    -> one EvtPlayerMoved per player that changed place -> EvtTotalRecomputed
*/

// Command is one transfer request. Only the fields its Type needs are read.
type Command struct {
	Type      CommandType
	PlayerID  PlayerID
	SlotID    SlotID
	EndpointA string
	EndpointB string
}

type EventType string

const (
	EvtPlayerMoved     EventType = "PlayerMoved"
	EvtTotalRecomputed EventType = "TotalRecomputed"
)

type Event struct {
	Type     EventType
	PlayerID PlayerID
	From     Location
	To       Location
	Total    float64
}

// Apply runs cmd against s. On success it returns the events and the new
// state; on failure it returns s unchanged together with the error.
func Apply(s State, cmd Command) ([]Event, State, error) {
	var (
		events []Event
		next   State
		err    error
	)

	switch cmd.Type {
	case CmdPromote:
		events, next, err = promote(s, cmd.PlayerID)
	case CmdAcquire:
		events, next, err = acquire(s, cmd.PlayerID)
	case CmdAssign:
		events, next, err = assign(s, cmd.PlayerID, cmd.SlotID)
	case CmdSwap:
		events, next, err = swap(s, cmd.EndpointA, cmd.EndpointB)
	default:
		return nil, s, ErrUnsupportedCommand
	}
	if err != nil {
		return nil, s, err
	}
	if len(events) == 0 {
		return nil, s, nil
	}

	next.ProjectedTotal = RecomputeTotal(next)
	events = append(events, Event{Type: EvtTotalRecomputed, Total: next.ProjectedTotal})
	return events, next, nil
}

func promote(s State, id PlayerID) ([]Event, State, error) {
	bi := s.benchIndex(id)
	if bi < 0 {
		return nil, s, missingFrom(s, id, ErrNotInBench)
	}
	p := s.Bench[bi]

	si, ok := openSlotFor(s, p.Position)
	if !ok {
		return nil, s, &TransferError{Kind: ErrNoAvailableSlot, PlayerID: id, Position: p.Position}
	}

	next := s.Clone()
	next.Bench = slices.Delete(next.Bench, bi, bi+1)
	next.Slots[si].Occupant = &p

	events := []Event{{
		Type:     EvtPlayerMoved,
		PlayerID: id,
		From:     Location{Container: ContainerBench, Index: bi},
		To:       Location{Container: ContainerSlot, SlotID: next.Slots[si].ID, Index: si},
	}}
	return events, next, nil
}

// openSlotFor picks the first empty slot of exactly pos in registry order,
// then the first empty FLEX slot for RB/WR/TE.
func openSlotFor(s State, pos Position) (int, bool) {
	for i, slot := range s.Slots {
		if slot.Required == pos && slot.Empty() {
			return i, true
		}
	}
	if !isFlexEligible(pos) {
		return -1, false
	}
	for i, slot := range s.Slots {
		if slot.Required == PosFLEX && slot.Empty() {
			return i, true
		}
	}
	return -1, false
}

func acquire(s State, id PlayerID) ([]Event, State, error) {
	ai := s.availableIndex(id)
	if ai < 0 {
		return nil, s, missingFrom(s, id, ErrNotInPool)
	}
	p := s.Available[ai]

	next := s.Clone()
	next.Available = slices.Delete(next.Available, ai, ai+1)
	next.Bench = append(next.Bench, p)

	events := []Event{{
		Type:     EvtPlayerMoved,
		PlayerID: id,
		From:     Location{Container: ContainerAvailable, Index: ai},
		To:       Location{Container: ContainerBench, Index: len(next.Bench) - 1},
	}}
	return events, next, nil
}

func assign(s State, id PlayerID, slotID SlotID) ([]Event, State, error) {
	si := s.slotIndex(slotID)
	if si < 0 {
		return nil, s, &TransferError{Kind: ErrUnknownSlot, PlayerID: id, SlotID: slotID}
	}

	p, from, ok := s.Locate(id)
	if !ok {
		return nil, s, &TransferError{Kind: ErrUnknownPlayer, PlayerID: id, SlotID: slotID}
	}
	if from.Container == ContainerSlot {
		return nil, s, &TransferError{Kind: ErrNotInBench, PlayerID: id, SlotID: from.SlotID, Position: p.Position}
	}

	target := s.Slots[si]
	if !IsCompatible(p.Position, target.Required) {
		return nil, s, &TransferError{Kind: ErrIncompatiblePosition, PlayerID: id, SlotID: slotID, Position: p.Position}
	}

	next := s.Clone()
	switch from.Container {
	case ContainerBench:
		next.Bench = slices.Delete(next.Bench, from.Index, from.Index+1)
	case ContainerAvailable:
		next.Available = slices.Delete(next.Available, from.Index, from.Index+1)
	}

	var events []Event
	if displaced := next.Slots[si].Occupant; displaced != nil {
		next.Bench = append(next.Bench, *displaced)
		events = append(events, Event{
			Type:     EvtPlayerMoved,
			PlayerID: displaced.ID,
			From:     Location{Container: ContainerSlot, SlotID: slotID, Index: si},
			To:       Location{Container: ContainerBench, Index: len(next.Bench) - 1},
		})
	}
	next.Slots[si].Occupant = &p
	events = append(events, Event{
		Type:     EvtPlayerMoved,
		PlayerID: id,
		From:     from,
		To:       Location{Container: ContainerSlot, SlotID: slotID, Index: si},
	})
	return events, next, nil
}

// missingFrom explains why id is not where a command expected it: it either
// moved elsewhere (stale gesture) or never existed.
func missingFrom(s State, id PlayerID, kind error) error {
	p, loc, ok := s.Locate(id)
	if !ok {
		return &TransferError{Kind: ErrUnknownPlayer, PlayerID: id}
	}
	return &TransferError{Kind: kind, PlayerID: id, SlotID: loc.SlotID, Position: p.Position}
}
