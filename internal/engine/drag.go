package engine

// DragSession is the two-phase drag-and-drop gesture: Begin captures the
// source id when the drag starts, Resolve turns the drop into a Swap command.
// The zero value is ready to use.
type DragSession struct {
	source string
	active bool
}

// Begin starts a drag from a bench entry (player id) or a filled slot (slot
// id). A drag already in progress is replaced.
func (d *DragSession) Begin(s State, sourceID string) error {
	if _, err := dragged(s, sourceID); err != nil {
		return err
	}
	d.source = sourceID
	d.active = true
	return nil
}

func (d *DragSession) Source() (string, bool) {
	return d.source, d.active
}

func (d *DragSession) Cancel() {
	d.source = ""
	d.active = false
}

// Resolve ends the drag at targetID. Only slots accept drops, and the dragged
// player must be able to play the target slot; otherwise the drop is rejected
// and no command is produced.
func (d *DragSession) Resolve(s State, targetID string) (Command, error) {
	if !d.active {
		return Command{}, ErrNoDragInProgress
	}
	source := d.source
	d.Cancel()

	target, ok := s.Slot(SlotID(targetID))
	if !ok {
		return Command{}, &TransferError{Kind: ErrInvalidDropTarget, SlotID: SlotID(targetID)}
	}

	p, err := dragged(s, source)
	if err != nil {
		return Command{}, err
	}
	if !IsCompatible(p.Position, target.Required) {
		return Command{}, &TransferError{Kind: ErrIncompatiblePosition, PlayerID: p.ID, SlotID: target.ID, Position: p.Position, Side: SideA}
	}

	return Command{Type: CmdSwap, EndpointA: source, EndpointB: targetID}, nil
}

// dragged returns the player being carried from sourceID.
func dragged(s State, sourceID string) (Player, error) {
	if slot, ok := s.Slot(SlotID(sourceID)); ok {
		if slot.Empty() {
			return Player{}, &TransferError{Kind: ErrEmptySwap, SlotID: slot.ID}
		}
		return *slot.Occupant, nil
	}
	if i := s.benchIndex(PlayerID(sourceID)); i >= 0 {
		return s.Bench[i], nil
	}
	if p, loc, ok := s.Locate(PlayerID(sourceID)); ok {
		return Player{}, &TransferError{Kind: ErrNotInBench, PlayerID: p.ID, SlotID: loc.SlotID, Position: p.Position}
	}
	return Player{}, &TransferError{Kind: ErrUnknownEndpoint, PlayerID: PlayerID(sourceID)}
}
