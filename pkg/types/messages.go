package types

// Client -> Server (websocket text frames, or POST /sessions/{code}/gestures)
// Promote:
//   player_id: string // bench player into the first open compatible slot
//
// Acquire:
//   player_id: string // available player onto the end of the bench
//
// Assign:
//   player_id: string // bench or available player
//   slot_id: string   // occupant, if any, goes to the end of the bench
//
// Swap:
//   endpoint_a: string // slot id or bench player id
//   endpoint_b: string
//
// SetSearchQuery:
//   query: string // case-insensitive match on name or team
//
// BeginDrag:
//   source_id: string // bench player id or filled slot id
//
// Drop:
//   target_id: string // slot id; anything else is refused silently
//
// CancelDrag: {}

// Server -> Client
// StateSnapshot: see snapshot.go
//
// Notification (after a snapshot, or alone when the gesture was refused):
//   version: number
//   notification: { message: string, kind: "success" | "error" }
//   code: string // "ok" or the refusal code, e.g. "no_available_slot"
//
// Error (malformed frames only):
//   version: 0
//   code: "bad_json" | "unknown_type"
//   error: string
