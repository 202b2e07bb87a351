package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"nextgenacademy/internal/models"
)

// localFile is the on-disk shape of the local store
type localFile struct {
	Profiles []localProfile `json:"profiles"`
}

// localProfile keeps the fields the API view of a profile hides
type localProfile struct {
	models.Profile
	ID      int64  `json:"id"`
	PINHash string `json:"pinHash"`
}

// LocalStore keeps all profiles in one JSON file
type LocalStore struct {
	path string

	mu       sync.Mutex
	profiles map[string]models.Profile
	nextID   int64
}

// OpenLocal loads the file at path, starting empty when it does not exist
func OpenLocal(path string) (*LocalStore, error) {
	s := &LocalStore{path: path, profiles: make(map[string]models.Profile)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local store: %w", err)
	}

	var file localFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode local store %s: %w", path, err)
	}
	for _, lp := range file.Profiles {
		p := lp.Profile
		p.ID = lp.ID
		p.PINHash = lp.PINHash
		s.profiles[key(p.Name)] = p
		s.nextID = max(s.nextID, p.ID)
	}
	return s, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindByName returns the profile with the given name
func (s *LocalStore) FindByName(ctx context.Context, name string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[key(name)]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return p.Clone(), nil
}

// Create adds a profile and writes the file
func (s *LocalStore) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[key(p.Name)]; ok {
		return models.Profile{}, ErrNameTaken
	}
	for _, existing := range s.profiles {
		if existing.FriendCode == p.FriendCode {
			return models.Profile{}, ErrFriendCodeTaken
		}
	}

	now := time.Now().UTC()
	s.nextID++
	p = p.Clone()
	p.ID = s.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	s.profiles[key(p.Name)] = p

	if err := s.flush(); err != nil {
		delete(s.profiles, key(p.Name))
		return models.Profile{}, err
	}
	return p.Clone(), nil
}

// Update replaces the stored profile and writes the file
func (s *LocalStore) Update(ctx context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.profiles[key(p.Name)]
	if !ok {
		return ErrNotFound
	}

	p = p.Clone()
	p.ID = existing.ID
	p.Name = existing.Name
	p.PINHash = existing.PINHash
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.profiles[key(p.Name)] = p

	if err := s.flush(); err != nil {
		s.profiles[key(p.Name)] = existing
		return err
	}
	return nil
}

// List returns every profile, highest xp first
func (s *LocalStore) List(ctx context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(), nil
}

func (s *LocalStore) sorted() []models.Profile {
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b models.Profile) int {
		if c := cmp.Compare(b.XP, a.XP); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// flush writes through a temp file so a crash never leaves a torn store
func (s *LocalStore) flush() error {
	profiles := s.sorted()
	file := localFile{Profiles: make([]localProfile, len(profiles))}
	for i, p := range profiles {
		file.Profiles[i] = localProfile{Profile: p, ID: p.ID, PINHash: p.PINHash}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write local store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace local store: %w", err)
	}
	return nil
}
