package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// PromoCodeStore keeps codes in a JSON file shaped {"conference": ["code", ...]}.
// Every mutation rewrites the file through a temp file and rename.
type PromoCodeStore struct {
	mu   sync.Mutex
	path string
}

func NewPromoCodeStore(path string) *PromoCodeStore {
	return &PromoCodeStore{path: path}
}

func (s *PromoCodeStore) Consume(_ context.Context, conferenceID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.read()
	if err != nil {
		return false, err
	}

	pool := codes[conferenceID]
	for i, c := range pool {
		if c != code {
			continue
		}
		codes[conferenceID] = append(pool[:i:i], pool[i+1:]...)
		if err := s.write(codes); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *PromoCodeStore) Add(_ context.Context, conferenceID string, newCodes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.read()
	if err != nil {
		return err
	}
	codes[conferenceID] = append(codes[conferenceID], newCodes...)
	return s.write(codes)
}

func (s *PromoCodeStore) Count(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(codes))
	for conf, pool := range codes {
		out[conf] = len(pool)
	}
	return out, nil
}

func (s *PromoCodeStore) read() (map[string][]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read promo codes: %w", err)
	}

	codes := map[string][]string{}
	if len(data) == 0 {
		return codes, nil
	}
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode promo codes: %w", err)
	}
	return codes, nil
}

func (s *PromoCodeStore) write(codes map[string][]string) error {
	data, err := json.MarshalIndent(codes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode promo codes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".promocodes-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp promo file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write promo codes: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync promo codes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close promo codes: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace promo codes: %w", err)
	}
	return nil
}
