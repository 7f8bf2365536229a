package types

// StateSnapshot:
//   version: number
//   session_code: string
//   state:
//     slots: [{ id, required, filled, status: "Playing" | "Empty", occupant?: Player }]
//     bench: Player[]
//     available: Player[]      // already filtered by search_query
//     available_total: number  // pool size before filtering
//     search_query: string
//     projected_total: number
//     projected_total_text: string // one decimal, e.g. "120.3"
//     dragging?: string            // source id while a drag is in progress
//
// Player:
//   id: string // "<name>-<team>" slug, e.g. "josh-allen-buf"
//   name, team: string
//   position: "QB" | "RB" | "WR" | "TE" | "K" | "DEF"
//   projected_points: number
//   image_ref?: string
