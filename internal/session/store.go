package session

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"doclens/internal/domain"
)

// Config holds the user-tunable knobs persisted with the session. Mutated
// only by the configure command.
type Config struct {
	ChunkSize  int    `yaml:"chunk_size"`
	Overlap    int    `yaml:"chunk_overlap"`
	TopK       int    `yaml:"top_k"`
	GroupSize  int    `yaml:"group_size"`
	Collection string `yaml:"default_collection"`
	Persona    string `yaml:"default_persona,omitempty"`
}

// State is the persisted session: configuration, the current focus document
// (if any), and the single most recent question/answer turn (if any).
type State struct {
	Config Config       `yaml:"config"`
	Focus  string       `yaml:"focus,omitempty"`
	Memory *domain.Turn `yaml:"memory,omitempty"`
}

// RecordTurn replaces any prior memory with the given exchange. Memory is a
// 1-slot buffer, not a history log.
func (s *State) RecordTurn(question, answer string) {
	s.Memory = &domain.Turn{Question: question, Answer: answer}
}

// ClearMemory drops the stored turn.
func (s *State) ClearMemory() { s.Memory = nil }

// SetFocus records the session-level default document scope. Callers
// validate the id against the live collection first.
func (s *State) SetFocus(documentID string) { s.Focus = documentID }

// ClearFocus reverts subsequent queries to collection-wide scope.
func (s *State) ClearFocus() { s.Focus = "" }

// Store reads and writes the session file. Single-user, single-process:
// concurrent external edits between Load and Save are not reconciled, the
// last writer wins.
type Store struct {
	path string
}

// NewStore creates a store persisting at the given path.
func NewStore(path string) *Store { return &Store{path: path} }

// DefaultPath returns ~/.config/doclens/session.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "doclens", "session.yaml"), nil
}

// Load reads the session, returning default state when no file exists yet.
func (st *Store) Load() (*State, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultState(), nil
		}
		return nil, err
	}
	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	applyDefaults(&state)
	return &state, nil
}

// Save writes the session to disk, creating directories as needed. Commands
// call it exactly once, after the whole command has succeeded, so a failed
// command never leaves partial state behind.
func (st *Store) Save(state *State) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0o644)
}

func defaultState() *State {
	return &State{
		Config: Config{
			ChunkSize:  1000,
			Overlap:    150,
			TopK:       3,
			GroupSize:  5,
			Collection: "documents",
		},
	}
}

func applyDefaults(state *State) {
	def := defaultState().Config
	if state.Config.ChunkSize == 0 {
		state.Config.ChunkSize = def.ChunkSize
	}
	if state.Config.Overlap == 0 {
		state.Config.Overlap = def.Overlap
	}
	if state.Config.TopK == 0 {
		state.Config.TopK = def.TopK
	}
	if state.Config.GroupSize == 0 {
		state.Config.GroupSize = def.GroupSize
	}
	if state.Config.Collection == "" {
		state.Config.Collection = def.Collection
	}
}
