// Package query is the process-wide keyed cache over backend list
// fetches. Each key holds an independent idle/loading/success/error
// state machine; concurrent fetches for one key are collapsed into a
// single flight, and a fetch superseded by an invalidation never
// overwrites the fresher state.
package query

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"bazaaradmin/internal/api"
)

// Status is the lifecycle state of one cache key.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher loads the collection behind a key.
type Fetcher func(ctx context.Context) ([]api.Entity, error)

// Snapshot is a read-only view of one key's state for rendering.
type Snapshot struct {
	Status Status
	Data   []api.Entity
	Err    error
	Stale  bool
}

type entry struct {
	status  Status
	data    []api.Entity
	err     error
	stale   bool
	version uint64
}

// Store is the keyed cache. A single Store is shared by every screen.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*entry
	generation uint64 // bumped by Clear so in-flight fetches cannot resurrect wiped entries
	group      singleflight.Group
	logger     *zap.Logger
}

// NewStore creates an empty cache.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Key builds the canonical cache key for a resource and its filter
// parameters. url.Values.Encode sorts keys, so equal filters always
// produce equal cache keys.
func Key(resource string, params url.Values) string {
	if len(params) == 0 {
		return resource
	}
	return resource + "?" + params.Encode()
}

// Fetch returns the cached collection for key when it is fresh,
// otherwise runs fn (one flight per key, shared by concurrent callers)
// and stores the outcome. A fetch that an invalidation overtook returns
// its data to the caller but leaves the entry stale for refetch.
func (s *Store) Fetch(ctx context.Context, key string, fn Fetcher) ([]api.Entity, error) {
	s.mu.Lock()
	e := s.ensure(key)
	if e.status == StatusSuccess && !e.stale {
		data := e.data
		s.mu.Unlock()
		return data, nil
	}
	startVersion := e.version
	startGeneration := s.generation
	e.status = StatusLoading
	s.mu.Unlock()

	result, err, shared := s.group.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if shared {
		s.logger.Debug("fetch deduplicated", zap.String("key", key))
	}

	var data []api.Entity
	if result != nil {
		data = result.([]api.Entity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e = s.ensure(key)
	if e.version != startVersion || s.generation != startGeneration {
		// Invalidated (or cleared) while in flight. The caller still
		// gets the response, but the entry stays stale so the next
		// read refetches.
		s.logger.Debug("discarding superseded fetch", zap.String("key", key))
		return data, err
	}
	if err != nil {
		e.status = StatusError
		e.err = err
		return nil, err
	}
	e.status = StatusSuccess
	e.data = data
	e.err = nil
	e.stale = false
	return data, nil
}

// Snapshot exposes the current state of a key without fetching.
func (s *Store) Snapshot(key string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Snapshot{Status: StatusIdle}, false
	}
	return Snapshot{Status: e.status, Data: e.data, Err: e.err, Stale: e.stale}, true
}

// Invalidate marks every key matching one of the prefixes stale. Data
// stays readable until the next fetch replaces it.
func (s *Store) Invalidate(prefixes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				e.stale = true
				e.version++
				s.logger.Debug("invalidated", zap.String("key", key), zap.String("prefix", prefix))
				break
			}
		}
	}
}

// Clear empties the cache, e.g. on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.entries = make(map[string]*entry)
}

// Mutate runs op and, only when it succeeds, invalidates the mutated
// resource plus its declared dependents. A failed mutation leaves the
// cached lists authoritative.
func (s *Store) Mutate(ctx context.Context, spec api.Spec, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	s.Invalidate(append([]string{spec.Name}, spec.Dependents...)...)
	return nil
}

func (s *Store) ensure(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}
