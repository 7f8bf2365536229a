package session

import (
	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
)

type GestureType string

const (
	GesturePromote        GestureType = "Promote"
	GestureAcquire        GestureType = "Acquire"
	GestureAssign         GestureType = "Assign"
	GestureSwap           GestureType = "Swap"
	GestureSetSearchQuery GestureType = "SetSearchQuery"
	GestureBeginDrag      GestureType = "BeginDrag"
	GestureDrop           GestureType = "Drop"
	GestureCancelDrag     GestureType = "CancelDrag"
)

// Gesture is one user action on the roster page. Only the fields its Type
// needs are read.
type Gesture struct {
	Type      GestureType     `json:"type"`
	PlayerID  engine.PlayerID `json:"player_id,omitempty"`
	SlotID    engine.SlotID   `json:"slot_id,omitempty"`
	EndpointA string          `json:"endpoint_a,omitempty"`
	EndpointB string          `json:"endpoint_b,omitempty"`
	SourceID  string          `json:"source_id,omitempty"`
	TargetID  string          `json:"target_id,omitempty"`
	Query     string          `json:"query,omitempty"`
}

func (t GestureType) Valid() bool {
	switch t {
	case GesturePromote, GestureAcquire, GestureAssign, GestureSwap,
		GestureSetSearchQuery, GestureBeginDrag, GestureDrop, GestureCancelDrag:
		return true
	}
	return false
}

// Command maps the button gestures onto engine commands.
func (g Gesture) Command() (engine.Command, error) {
	switch g.Type {
	case GesturePromote:
		return engine.Command{Type: engine.CmdPromote, PlayerID: g.PlayerID}, nil
	case GestureAcquire:
		return engine.Command{Type: engine.CmdAcquire, PlayerID: g.PlayerID}, nil
	case GestureAssign:
		return engine.Command{Type: engine.CmdAssign, PlayerID: g.PlayerID, SlotID: g.SlotID}, nil
	case GestureSwap:
		return engine.Command{Type: engine.CmdSwap, EndpointA: g.EndpointA, EndpointB: g.EndpointB}, nil
	default:
		return engine.Command{}, engine.ErrUnsupportedCommand
	}
}
