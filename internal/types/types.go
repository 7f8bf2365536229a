package types

import (
	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/present"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/session"
)

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgNotification  = "Notification"
	MsgError         = "Error"
)

type ClientMessage struct {
	Type      string `json:"type"`
	PlayerID  string `json:"player_id,omitempty"`
	SlotID    string `json:"slot_id,omitempty"`
	EndpointA string `json:"endpoint_a,omitempty"`
	EndpointB string `json:"endpoint_b,omitempty"`
	SourceID  string `json:"source_id,omitempty"`
	TargetID  string `json:"target_id,omitempty"`
	Query     string `json:"query,omitempty"`
}

// Gesture converts the wire message. ok is false for unknown types.
func (m ClientMessage) Gesture() (session.Gesture, bool) {
	t := session.GestureType(m.Type)
	if !t.Valid() {
		return session.Gesture{}, false
	}
	return session.Gesture{
		Type:      t,
		PlayerID:  engine.PlayerID(m.PlayerID),
		SlotID:    engine.SlotID(m.SlotID),
		EndpointA: m.EndpointA,
		EndpointB: m.EndpointB,
		SourceID:  m.SourceID,
		TargetID:  m.TargetID,
		Query:     m.Query,
	}, true
}

type ServerMessage struct {
	Type         string                `json:"type"` // "StateSnapshot" | "Notification" | "Error"
	SessionCode  string                `json:"session_code,omitempty"`
	Version      int                   `json:"version"`
	State        *present.View         `json:"state,omitempty"`
	Notification *present.Notification `json:"notification,omitempty"`
	Code         string                `json:"code,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// FromSnapshot renders what a subscriber should see for snap: a state
// snapshot followed by its notification, or only the notification for a
// rejected gesture.
func FromSnapshot(code string, snap session.Snapshot) []ServerMessage {
	var out []ServerMessage
	if !snap.Rejected {
		view := snap.View
		out = append(out, ServerMessage{Type: MsgStateSnapshot, SessionCode: code, Version: snap.Version, State: &view})
	}
	if snap.Notification != nil {
		out = append(out, ServerMessage{Type: MsgNotification, Version: snap.Version, Notification: snap.Notification, Code: snap.Code})
	}
	return out
}

func ErrorMessage(code, msg string) ServerMessage {
	return ServerMessage{Type: MsgError, Code: code, Error: msg}
}
