package present

import (
	"fmt"
	"slices"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
)

const (
	StatusPlaying = "Playing"
	StatusEmpty   = "Empty"
)

type SlotView struct {
	ID       engine.SlotID   `json:"id"`
	Required engine.Position `json:"required"`
	Filled   bool            `json:"filled"`
	Status   string          `json:"status"`
	Occupant *engine.Player  `json:"occupant,omitempty"`
}

// View is what the page renders after every accepted gesture. Available is
// already filtered by the current search query.
type View struct {
	Slots              []SlotView      `json:"slots"`
	Bench              []engine.Player `json:"bench"`
	Available          []engine.Player `json:"available"`
	AvailableTotal     int             `json:"available_total"`
	SearchQuery        string          `json:"search_query"`
	ProjectedTotal     float64         `json:"projected_total"`
	ProjectedTotalText string          `json:"projected_total_text"`
	Dragging           string          `json:"dragging,omitempty"`
}

// BuildView derives a render-ready copy of s. Nothing in the result aliases s.
func BuildView(s engine.State, query string, mode engine.SearchMode) View {
	v := View{
		Slots:              make([]SlotView, len(s.Slots)),
		Bench:              slices.Clone(s.Bench),
		Available:          slices.Collect(engine.Filter(mode, s.Available, query)),
		AvailableTotal:     len(s.Available),
		SearchQuery:        query,
		ProjectedTotal:     s.ProjectedTotal,
		ProjectedTotalText: FormatPoints(s.ProjectedTotal),
	}
	if v.Bench == nil {
		v.Bench = []engine.Player{}
	}
	if v.Available == nil {
		v.Available = []engine.Player{}
	}

	for i, slot := range s.Slots {
		sv := SlotView{ID: slot.ID, Required: slot.Required, Status: StatusEmpty}
		if slot.Occupant != nil {
			p := *slot.Occupant
			sv.Occupant = &p
			sv.Filled = true
			sv.Status = StatusPlaying
		}
		v.Slots[i] = sv
	}
	return v
}

// FormatPoints renders points with one decimal, as the totals bar shows them.
func FormatPoints(points float64) string {
	return fmt.Sprintf("%.1f", points)
}
