package engine

import "strings"

type Position string

const (
	PosQB   Position = "QB"
	PosRB   Position = "RB"
	PosWR   Position = "WR"
	PosTE   Position = "TE"
	PosK    Position = "K"
	PosDEF  Position = "DEF"
	PosFLEX Position = "FLEX" // slot requirement only, never a player position
)

// PlayerPositions lists every position a player can hold.
var PlayerPositions = []Position{PosQB, PosRB, PosWR, PosTE, PosK, PosDEF}

// SlotPositions lists every requirement a lineup slot can carry.
var SlotPositions = []Position{PosQB, PosRB, PosWR, PosTE, PosK, PosDEF, PosFLEX}

func (p Position) IsPlayerPosition() bool {
	switch p {
	case PosQB, PosRB, PosWR, PosTE, PosK, PosDEF:
		return true
	}
	return false
}

func (p Position) IsSlotPosition() bool {
	return p == PosFLEX || p.IsPlayerPosition()
}

// ParsePosition accepts the usual spellings ("qb", "D/ST", "DST") and
// returns the canonical Position.
func ParsePosition(raw string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QB":
		return PosQB, true
	case "RB":
		return PosRB, true
	case "WR":
		return PosWR, true
	case "TE":
		return PosTE, true
	case "K", "PK":
		return PosK, true
	case "DEF", "DST", "D/ST":
		return PosDEF, true
	case "FLEX":
		return PosFLEX, true
	default:
		return "", false
	}
}

type PlayerID string

// Player is a read-only snapshot of what the page shows for a player.
// Transfers move Players between containers; they never edit one.
type Player struct {
	ID              PlayerID `json:"id"`
	Name            string   `json:"name"`
	Team            string   `json:"team"`
	Position        Position `json:"position"`
	ProjectedPoints float64  `json:"projected_points"`
	ImageRef        string   `json:"image_ref,omitempty"`
}

func NewPlayer(name, team string, pos Position, projected float64, imageRef string) Player {
	return Player{
		ID:              MakePlayerID(name, team),
		Name:            name,
		Team:            team,
		Position:        pos,
		ProjectedPoints: projected,
		ImageRef:        imageRef,
	}
}

// MakePlayerID derives the stable id from name and team, e.g.
// ("Josh Allen", "BUF") -> "josh-allen-buf".
func MakePlayerID(name, team string) PlayerID {
	return PlayerID(slug(name) + "-" + slug(team))
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
