// Package store gives typed access to the three persisted collections. It
// is their only owner: components read whole collections, transform them
// functionally and write them back as an all-or-nothing overwrite. Every
// successful write publishes a change event so other live views refresh.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ledger-service/internal/model"
	"ledger-service/pkg/bus"
	"ledger-service/pkg/kv"
	"ledger-service/prometheus"
)

// Collection keys in the key-value collaborator.
const (
	KeyModels    = "models"
	KeyDealers   = "dealers"
	KeyCustomers = "customers"
)

// EntityStore persists the Model, Dealer and Customer collections as
// JSON-serialized ordered sequences, one key per collection.
type EntityStore struct {
	kv        kv.Store
	bus       *bus.Bus
	keyPrefix string
	log       *zap.Logger
}

// New creates an entity store over the given key-value backend
func New(backend kv.Store, b *bus.Bus, keyPrefix string, log *zap.Logger) *EntityStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &EntityStore{kv: backend, bus: b, keyPrefix: keyPrefix, log: log}
}

// LoadModels returns the model collection in stored order
func (s *EntityStore) LoadModels(ctx context.Context) []model.Model {
	raw, ok := s.read(ctx, KeyModels)
	if !ok {
		return nil
	}
	var models []model.Model
	if err := json.Unmarshal([]byte(raw), &models); err != nil {
		s.recover(KeyModels, err)
		return nil
	}
	return models
}

// SaveModels overwrites the model collection and signals the change
func (s *EntityStore) SaveModels(ctx context.Context, models []model.Model) error {
	return s.save(ctx, KeyModels, models)
}

// LoadDealers returns the dealer collection in stored order
func (s *EntityStore) LoadDealers(ctx context.Context) []model.Dealer {
	raw, ok := s.read(ctx, KeyDealers)
	if !ok {
		return nil
	}
	var dealers []model.Dealer
	if err := json.Unmarshal([]byte(raw), &dealers); err != nil {
		s.recover(KeyDealers, err)
		return nil
	}
	return dealers
}

// SaveDealers overwrites the dealer collection and signals the change
func (s *EntityStore) SaveDealers(ctx context.Context, dealers []model.Dealer) error {
	return s.save(ctx, KeyDealers, dealers)
}

// LoadCustomers returns the customer collection in stored order
func (s *EntityStore) LoadCustomers(ctx context.Context) []model.Customer {
	raw, ok := s.read(ctx, KeyCustomers)
	if !ok {
		return nil
	}
	var customers []model.Customer
	if err := json.Unmarshal([]byte(raw), &customers); err != nil {
		s.recover(KeyCustomers, err)
		return nil
	}
	return customers
}

// SaveCustomers overwrites the customer collection and signals the change
func (s *EntityStore) SaveCustomers(ctx context.Context, customers []model.Customer) error {
	return s.save(ctx, KeyCustomers, customers)
}

// read fetches the raw blob for one collection. An absent key is a normal
// empty collection; a backend read failure is recovered the same way,
// logged and counted but never surfaced to the caller.
func (s *EntityStore) read(ctx context.Context, collection string) (string, bool) {
	defer prometheus.TrackKvOperation("get")(time.Now())

	raw, ok, err := s.kv.Get(ctx, s.key(collection))
	if err != nil {
		s.recover(collection, err)
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// recover notes an unreadable or corrupt collection blob that was replaced
// by an empty collection.
func (s *EntityStore) recover(collection string, err error) {
	s.log.Warn("Corrupt or unreadable collection, treating as empty",
		zap.String("collection", collection),
		zap.Error(err))
	prometheus.RecordCorruptionRecovered(collection)
}

// save serializes the full collection and overwrites the stored blob, then
// publishes the change event. There is no partial write: either the whole
// sequence replaces the previous one or nothing changes.
func (s *EntityStore) save(ctx context.Context, collection string, records interface{}) error {
	defer prometheus.TrackKvOperation("set")(time.Now())

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", collection, err)
	}

	if err := s.kv.Set(ctx, s.key(collection), string(raw)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", collection, err)
	}

	if s.bus != nil {
		s.bus.Publish(bus.Event{Collection: collection})
	}
	return nil
}

func (s *EntityStore) key(collection string) string {
	if s.keyPrefix == "" {
		return collection
	}
	return s.keyPrefix + collection
}
