// Package kvstore keeps blueprints and contracts as JSON records in a
// local key-value store, under blueprint_<id> and contract_<id> keys.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mbolis/quick-contract/log"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

const (
	blueprintPrefix = "blueprint_"
	contractPrefix  = "contract_"
)

type Store struct {
	mu  sync.Mutex
	kv  KV
	now store.Clock
}

func New(kv KV) *Store {
	return &Store{kv: kv, now: store.UTC}
}

// WithClock replaces the clock used to stamp saved records.
func (s *Store) WithClock(now store.Clock) *Store {
	s.now = now
	return s
}

func (s *Store) get(key string, v any) error {
	data, err := s.kv.Get(key)
	if errors.Is(err, ErrNoKey) {
		return fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.Set(key, data)
}

func (s *Store) remove(key string) error {
	err := s.kv.Remove(key)
	if errors.Is(err, ErrNoKey) {
		return fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	return err
}

// each decodes every record whose key starts with prefix. Records that do
// not parse are logged and skipped.
func (s *Store) each(prefix string, decode func(data []byte) error) error {
	keys, err := s.kv.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		data, err := s.kv.Get(key)
		if errors.Is(err, ErrNoKey) {
			continue
		}
		if err != nil {
			return err
		}
		if err := decode(data); err != nil {
			log.Warnf("kvstore: skipping %s: %s", key, err)
		}
	}
	return nil
}

func (s *Store) ListBlueprints(ctx context.Context) ([]model.Blueprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bps := []model.Blueprint{}
	err := s.each(blueprintPrefix, func(data []byte) error {
		var bp model.Blueprint
		if err := json.Unmarshal(data, &bp); err != nil {
			return err
		}
		bps = append(bps, bp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	store.SortBlueprints(bps)
	return bps, nil
}

func (s *Store) GetBlueprint(ctx context.Context, id string) (bp model.Blueprint, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.get(blueprintPrefix+id, &bp)
	return
}

func (s *Store) SaveBlueprint(ctx context.Context, bp model.Blueprint) (model.Blueprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bp.ID != "" {
		var existing model.Blueprint
		if err := s.get(blueprintPrefix+bp.ID, &existing); err == nil {
			bp.CreatedAt = existing.CreatedAt
		}
	}
	saved := store.PrepareBlueprint(bp, s.now())
	if err := s.put(blueprintPrefix+saved.ID, saved); err != nil {
		return model.Blueprint{}, err
	}
	return saved, nil
}

func (s *Store) DeleteBlueprint(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(blueprintPrefix + id)
}

func (s *Store) ListContracts(ctx context.Context) ([]model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := []model.Contract{}
	err := s.each(contractPrefix, func(data []byte) error {
		var c model.Contract
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		cs = append(cs, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	store.SortContracts(cs)
	return cs, nil
}

func (s *Store) GetContract(ctx context.Context, id string) (c model.Contract, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.get(contractPrefix+id, &c)
	return
}

func (s *Store) SaveContract(ctx context.Context, c model.Contract) (model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID != "" {
		var existing model.Contract
		if err := s.get(contractPrefix+c.ID, &existing); err == nil {
			c.CreatedAt = existing.CreatedAt
		}
	}
	saved := store.PrepareContract(c, s.now())
	if err := s.put(contractPrefix+saved.ID, saved); err != nil {
		return model.Contract{}, err
	}
	return saved, nil
}

// UpdateContractStatus rewrites the whole contract record with the new
// status and update time.
func (s *Store) UpdateContractStatus(ctx context.Context, id string, status model.Status) (model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c model.Contract
	if err := s.get(contractPrefix+id, &c); err != nil {
		return model.Contract{}, err
	}
	c.Status = status
	c.UpdatedAt = s.now()
	if err := s.put(contractPrefix+id, c); err != nil {
		return model.Contract{}, err
	}
	return c, nil
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(contractPrefix + id)
}
