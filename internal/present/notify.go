package present

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Success describes an accepted command. before is the state the command ran
// against, so names can be looked up even for players that moved.
func Success(before engine.State, cmd engine.Command, events []engine.Event) Notification {
	switch cmd.Type {
	case engine.CmdPromote:
		return ok("%s moved to lineup!", playerName(before, cmd.PlayerID))
	case engine.CmdAcquire:
		return ok("%s added to bench!", playerName(before, cmd.PlayerID))
	case engine.CmdAssign:
		for _, ev := range events {
			if ev.Type == engine.EvtPlayerMoved && ev.PlayerID != cmd.PlayerID {
				return ok("%s starting at %s, %s moved to bench", playerName(before, cmd.PlayerID), cmd.SlotID, playerName(before, ev.PlayerID))
			}
		}
		return ok("%s starting at %s", playerName(before, cmd.PlayerID), cmd.SlotID)
	case engine.CmdSwap:
		return ok("Players swapped!")
	default:
		return ok("Lineup updated")
	}
}

// Failure turns an engine error into the message shown to the user.
func Failure(before engine.State, err error) Notification {
	te, _ := engine.AsTransferError(err)
	name := "Player"
	if te != nil && te.PlayerID != "" {
		name = playerName(before, te.PlayerID)
	}

	switch {
	case errors.Is(err, engine.ErrNoAvailableSlot):
		pos := engine.Position("")
		if te != nil {
			pos = te.Position
		}
		return fail("No available %s slots", pos)
	case errors.Is(err, engine.ErrIncompatiblePosition):
		if te != nil && te.SlotID != "" {
			return fail("%s can't play %s", name, te.SlotID)
		}
		return fail("%s can't play there", name)
	case errors.Is(err, engine.ErrNotInPool):
		return fail("%s is no longer available", name)
	case errors.Is(err, engine.ErrNotInBench):
		return fail("%s is not on the bench", name)
	case errors.Is(err, engine.ErrUnknownPlayer), errors.Is(err, engine.ErrUnknownEndpoint):
		return fail("Player not found")
	case errors.Is(err, engine.ErrUnknownSlot):
		return fail("Lineup slot not found")
	case errors.Is(err, engine.ErrEmptySwap):
		return fail("Nothing to swap")
	case errors.Is(err, engine.ErrInvalidDropTarget):
		return fail("Players can only be dropped on lineup slots")
	case errors.Is(err, engine.ErrNoDragInProgress):
		return fail("No player is being dragged")
	default:
		return fail("Something went wrong")
	}
}

// Code is a stable machine-readable name for an engine error, used in API
// responses and metric labels.
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, engine.ErrNoAvailableSlot):
		return "no_available_slot"
	case errors.Is(err, engine.ErrIncompatiblePosition):
		return "incompatible_position"
	case errors.Is(err, engine.ErrNotInPool):
		return "not_in_pool"
	case errors.Is(err, engine.ErrNotInBench):
		return "not_in_bench"
	case errors.Is(err, engine.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, engine.ErrUnknownSlot):
		return "unknown_slot"
	case errors.Is(err, engine.ErrUnknownEndpoint):
		return "unknown_endpoint"
	case errors.Is(err, engine.ErrEmptySwap):
		return "empty_swap"
	case errors.Is(err, engine.ErrInvalidDropTarget):
		return "invalid_drop_target"
	case errors.Is(err, engine.ErrNoDragInProgress):
		return "no_drag_in_progress"
	case errors.Is(err, engine.ErrUnsupportedCommand):
		return "unsupported_command"
	case errors.Is(err, engine.ErrInvalidRoster):
		return "invalid_roster"
	default:
		return "internal"
	}
}

func playerName(s engine.State, id engine.PlayerID) string {
	if p, _, found := s.Locate(id); found {
		return p.Name
	}
	return string(id)
}

func ok(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Kind: KindSuccess}
}

func fail(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Kind: KindError}
}
