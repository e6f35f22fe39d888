package hints

import (
	"log/slog"
	"sync"

	"github.com/syssam/modelgql"
)

// Store maps type names to their hint records. Records are written during
// type registration and read afterwards; reads are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Hints
	log     *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger of the store.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		records: make(map[string]*Hints),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach builds a record from opts and associates it with the type.
// Attaching twice replaces the previous record.
func (s *Store) Attach(typeName string, opts ...Option) *Hints {
	h := New(opts...)
	s.Set(typeName, h)
	return h
}

// Set associates an existing record with the type, replacing any previous one.
func (s *Store) Set(typeName string, h *Hints) {
	s.mu.Lock()
	_, exists := s.records[typeName]
	s.records[typeName] = h
	s.mu.Unlock()
	if exists {
		s.log.Warn("optimizer hints replaced", slog.String("type", typeName))
	}
}

// Lookup returns the record attached to the type.
func (s *Store) Lookup(typeName string) (*Hints, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.records[typeName]
	return h, ok
}

// Get returns the record attached to the type. When no record is attached,
// strict mode fails with a *modelgql.ConfigurationError, and non-strict mode
// returns an empty record.
func (s *Store) Get(typeName string, strict bool) (*Hints, error) {
	if h, ok := s.Lookup(typeName); ok {
		return h, nil
	}
	if strict {
		return nil, modelgql.NewConfigurationError(typeName, "", "optimizer hints not configured")
	}
	s.log.Debug("optimizer hints not configured", slog.String("type", typeName))
	return Empty(), nil
}

// Len returns the number of types with attached records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
