package engine

type SlotID string

// SlotConfig is one entry of the slot registry supplied at session start.
type SlotConfig struct {
	ID       SlotID   `json:"id" yaml:"id"`
	Required Position `json:"required" yaml:"position"`
}

type Slot struct {
	ID       SlotID   `json:"id"`
	Required Position `json:"required"`
	Occupant *Player  `json:"occupant,omitempty"`
}

func (s Slot) Empty() bool { return s.Occupant == nil }

// State is the whole roster for one page session. Slots keep registry order
// and never change length after NewState.
type State struct {
	Slots          []Slot   `json:"slots"`
	Bench          []Player `json:"bench"`
	Available      []Player `json:"available"`
	ProjectedTotal float64  `json:"projected_total"`
}

// Seed is the initial page data a State is built from.
type Seed struct {
	Slots     []SlotConfig
	Lineup    map[SlotID]Player
	Bench     []Player
	Available []Player
}

type ContainerKind string

const (
	ContainerAvailable ContainerKind = "available"
	ContainerBench     ContainerKind = "bench"
	ContainerSlot      ContainerKind = "slot"
)

// Location pins a player to a container. Index is the position inside the
// bench or available list; SlotID is set for slots.
type Location struct {
	Container ContainerKind `json:"container"`
	SlotID    SlotID        `json:"slot_id,omitempty"`
	Index     int           `json:"index"`
}

// NewState validates the seed and builds the initial roster.
func NewState(seed Seed) (State, error) {
	if len(seed.Slots) == 0 {
		return State{}, invalidRoster("slot registry is empty")
	}

	s := State{
		Slots:     make([]Slot, 0, len(seed.Slots)),
		Bench:     make([]Player, 0, len(seed.Bench)),
		Available: make([]Player, 0, len(seed.Available)),
	}

	slotIDs := make(map[SlotID]bool, len(seed.Slots))
	for _, cfg := range seed.Slots {
		if cfg.ID == "" {
			return State{}, invalidRoster("slot with empty id")
		}
		if slotIDs[cfg.ID] {
			return State{}, invalidRoster("duplicate slot %q", cfg.ID)
		}
		if !cfg.Required.IsSlotPosition() {
			return State{}, invalidRoster("slot %q has unknown position %q", cfg.ID, cfg.Required)
		}
		slotIDs[cfg.ID] = true
		s.Slots = append(s.Slots, Slot{ID: cfg.ID, Required: cfg.Required})
	}

	seen := make(map[PlayerID]bool)
	checkPlayer := func(p Player) error {
		if p.ID == "" || p.Name == "" {
			return invalidRoster("player without id or name")
		}
		if !p.Position.IsPlayerPosition() {
			return invalidRoster("player %q has invalid position %q", p.ID, p.Position)
		}
		if p.ProjectedPoints < 0 {
			return invalidRoster("player %q has negative projection", p.ID)
		}
		if seen[p.ID] {
			return invalidRoster("player %q appears more than once", p.ID)
		}
		if slotIDs[SlotID(p.ID)] {
			return invalidRoster("player id %q collides with a slot id", p.ID)
		}
		seen[p.ID] = true
		return nil
	}

	for slotID, p := range seed.Lineup {
		i := s.slotIndex(slotID)
		if i < 0 {
			return State{}, invalidRoster("lineup references unknown slot %q", slotID)
		}
		if err := checkPlayer(p); err != nil {
			return State{}, err
		}
		if !IsCompatible(p.Position, s.Slots[i].Required) {
			return State{}, invalidRoster("%s %q cannot start at %s slot %q", p.Position, p.ID, s.Slots[i].Required, slotID)
		}
		occupant := p
		s.Slots[i].Occupant = &occupant
	}
	for _, p := range seed.Bench {
		if err := checkPlayer(p); err != nil {
			return State{}, err
		}
		s.Bench = append(s.Bench, p)
	}
	for _, p := range seed.Available {
		if err := checkPlayer(p); err != nil {
			return State{}, err
		}
		s.Available = append(s.Available, p)
	}

	s.ProjectedTotal = RecomputeTotal(s)
	return s, nil
}

// Clone returns a deep copy; the engine mutates clones only.
func (s State) Clone() State {
	c := State{
		Slots:          make([]Slot, len(s.Slots)),
		Bench:          append(make([]Player, 0, len(s.Bench)+1), s.Bench...),
		Available:      append(make([]Player, 0, len(s.Available)), s.Available...),
		ProjectedTotal: s.ProjectedTotal,
	}
	for i, slot := range s.Slots {
		c.Slots[i] = Slot{ID: slot.ID, Required: slot.Required}
		if slot.Occupant != nil {
			p := *slot.Occupant
			c.Slots[i].Occupant = &p
		}
	}
	return c
}

// SlotConfigs returns the registry the state was built from.
func (s State) SlotConfigs() []SlotConfig {
	out := make([]SlotConfig, len(s.Slots))
	for i, slot := range s.Slots {
		out[i] = SlotConfig{ID: slot.ID, Required: slot.Required}
	}
	return out
}

func (s State) Slot(id SlotID) (Slot, bool) {
	i := s.slotIndex(id)
	if i < 0 {
		return Slot{}, false
	}
	return s.Slots[i], true
}

// Locate finds a player anywhere in the roster.
func (s State) Locate(id PlayerID) (Player, Location, bool) {
	for i, slot := range s.Slots {
		if slot.Occupant != nil && slot.Occupant.ID == id {
			return *slot.Occupant, Location{Container: ContainerSlot, SlotID: slot.ID, Index: i}, true
		}
	}
	if i := s.benchIndex(id); i >= 0 {
		return s.Bench[i], Location{Container: ContainerBench, Index: i}, true
	}
	if i := s.availableIndex(id); i >= 0 {
		return s.Available[i], Location{Container: ContainerAvailable, Index: i}, true
	}
	return Player{}, Location{}, false
}

// Lineup returns the occupants of filled slots in registry order.
func (s State) Lineup() []Player {
	out := make([]Player, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Occupant != nil {
			out = append(out, *slot.Occupant)
		}
	}
	return out
}

func (s State) slotIndex(id SlotID) int {
	for i, slot := range s.Slots {
		if slot.ID == id {
			return i
		}
	}
	return -1
}

func (s State) benchIndex(id PlayerID) int {
	for i, p := range s.Bench {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s State) availableIndex(id PlayerID) int {
	for i, p := range s.Available {
		if p.ID == id {
			return i
		}
	}
	return -1
}
