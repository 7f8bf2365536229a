package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoAvailableSlot = errors.New("no available slot")
var ErrIncompatiblePosition = errors.New("incompatible position")
var ErrNotInPool = errors.New("player not in available pool")
var ErrNotInBench = errors.New("player not on bench")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrUnknownSlot = errors.New("unknown slot")
var ErrUnknownEndpoint = errors.New("unknown endpoint")
var ErrEmptySwap = errors.New("nothing to swap")
var ErrInvalidDropTarget = errors.New("invalid drop target")
var ErrNoDragInProgress = errors.New("no drag in progress")
var ErrInvalidRoster = errors.New("invalid roster")
var ErrUnsupportedCommand = errors.New("unsupported command")

// Side names which endpoint of a swap failed the compatibility check.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// TransferError carries the context of a rejected command. errors.Is matches
// it against its Kind.
type TransferError struct {
	Kind     error
	PlayerID PlayerID
	SlotID   SlotID
	Position Position
	Side     Side
}

func (e *TransferError) Error() string {
	parts := []string{e.Kind.Error()}
	if e.PlayerID != "" {
		parts = append(parts, "player="+string(e.PlayerID))
	}
	if e.SlotID != "" {
		parts = append(parts, "slot="+string(e.SlotID))
	}
	if e.Position != "" {
		parts = append(parts, "position="+string(e.Position))
	}
	if e.Side != "" {
		parts = append(parts, "side="+string(e.Side))
	}
	return strings.Join(parts, " ")
}

func (e *TransferError) Unwrap() error { return e.Kind }

// AsTransferError unwraps err into a *TransferError when it is one.
func AsTransferError(err error) (*TransferError, bool) {
	var te *TransferError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

func invalidRoster(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRoster, fmt.Sprintf(format, args...))
}
