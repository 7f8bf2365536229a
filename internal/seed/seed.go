package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
)

//go:embed default.yaml
var defaultSeed []byte

var ErrEmptySeed = errors.New("seed document is empty")

// File is the on-disk seed layout. JSON bodies decode through the same path
// since yaml.v3 accepts JSON documents.
type File struct {
	Slots     []SlotEntry            `yaml:"slots"`
	Lineup    map[string]PlayerEntry `yaml:"lineup"`
	Bench     []PlayerEntry          `yaml:"bench"`
	Available []PlayerEntry          `yaml:"available"`
}

type SlotEntry struct {
	ID       string `yaml:"id"`
	Position string `yaml:"position"`
}

type PlayerEntry struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Team      string  `yaml:"team"`
	Position  string  `yaml:"position"`
	Projected float64 `yaml:"projected"`
	Image     string  `yaml:"image"`
}

// Default returns the embedded demo roster.
func Default() (engine.Seed, error) {
	return Parse(defaultSeed)
}

func Load(path string) (engine.Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.Seed{}, fmt.Errorf("reading seed %s: %w", path, err)
	}
	s, err := Parse(raw)
	if err != nil {
		return engine.Seed{}, fmt.Errorf("seed %s: %w", path, err)
	}
	return s, nil
}

func Parse(raw []byte) (engine.Seed, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return engine.Seed{}, ErrEmptySeed
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return engine.Seed{}, ErrEmptySeed
		}
		return engine.Seed{}, fmt.Errorf("decoding seed: %w", err)
	}
	return f.Seed()
}

// Seed converts the file into engine input. Roster rules (duplicates,
// compatibility) are left to engine.NewState.
func (f File) Seed() (engine.Seed, error) {
	out := engine.Seed{
		Slots:  make([]engine.SlotConfig, 0, len(f.Slots)),
		Lineup: make(map[engine.SlotID]engine.Player, len(f.Lineup)),
	}

	for _, e := range f.Slots {
		pos, ok := engine.ParsePosition(e.Position)
		if !ok {
			return engine.Seed{}, fmt.Errorf("slot %q: unknown position %q", e.ID, e.Position)
		}
		out.Slots = append(out.Slots, engine.SlotConfig{ID: engine.SlotID(e.ID), Required: pos})
	}

	for slotID, e := range f.Lineup {
		p, err := e.Player()
		if err != nil {
			return engine.Seed{}, fmt.Errorf("lineup %s: %w", slotID, err)
		}
		out.Lineup[engine.SlotID(slotID)] = p
	}

	var err error
	if out.Bench, err = players("bench", f.Bench); err != nil {
		return engine.Seed{}, err
	}
	if out.Available, err = players("available", f.Available); err != nil {
		return engine.Seed{}, err
	}
	return out, nil
}

func players(section string, entries []PlayerEntry) ([]engine.Player, error) {
	out := make([]engine.Player, 0, len(entries))
	for i, e := range entries {
		p, err := e.Player()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (e PlayerEntry) Player() (engine.Player, error) {
	pos, ok := engine.ParsePosition(e.Position)
	if !ok || pos == engine.PosFLEX {
		return engine.Player{}, fmt.Errorf("player %q: invalid position %q", e.Name, e.Position)
	}
	p := engine.NewPlayer(e.Name, e.Team, pos, e.Projected, e.Image)
	if e.ID != "" {
		p.ID = engine.PlayerID(e.ID)
	}
	return p, nil
}

// Build parses raw (or the embedded default when raw is empty) and validates
// it into a State.
func Build(raw []byte) (engine.State, error) {
	var (
		s   engine.Seed
		err error
	)
	if len(bytes.TrimSpace(raw)) == 0 {
		s, err = Default()
	} else {
		s, err = Parse(raw)
	}
	if err != nil {
		return engine.State{}, err
	}
	return engine.NewState(s)
}
