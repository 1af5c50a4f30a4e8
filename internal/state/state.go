package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FileState represents the state of a single converted note
type FileState struct {
	MTime int64  `json:"mtime"`
	Hash  string `json:"hash"`
	Page  string `json:"page"`
}

// State records what the last export produced. It is safe for concurrent
// use
type State struct {
	mu    sync.Mutex
	Files map[string]*FileState `json:"files"`
	Pages map[string]string     `json:"pages"` // note guid -> page name
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
		Pages: make(map[string]string),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}
	if state.Pages == nil {
		state.Pages = make(map[string]string)
	}

	return state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// NoteID returns the guid Tomboy uses as the note's file name
func NoteID(path string) (uuid.UUID, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id, err := uuid.Parse(base)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// HasChanged checks if a note has changed since it was last converted
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	s.mu.Lock()
	fileState, exists := s.Files[path]
	s.mu.Unlock()

	if !exists {
		// New file
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records that the note at path was written as page
func (s *State) Update(path string, page string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Files[path] = &FileState{
		MTime: info.ModTime().Unix(),
		Hash:  hash,
		Page:  page,
	}
	if id, ok := NoteID(path); ok {
		s.Pages[id.String()] = page
	}

	return nil
}

// Lookup returns the recorded state of the note at path
func (s *State) Lookup(path string) (FileState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fileState, ok := s.Files[path]
	if !ok {
		return FileState{}, false
	}
	return *fileState, true
}

// Page returns the page name recorded for a note guid
func (s *State) Page(id uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.Pages[id.String()]
	return page, ok
}

// Len returns the number of tracked notes
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Files)
}
