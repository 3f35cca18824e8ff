package service

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"prapp/internal/modules/profile/domain"
	profileout "prapp/internal/modules/profile/port/out"
)

const StorageKey = "prapp_profile"

// Store is the single source of truth for the profile. Every mutation is
// written through to storage before it returns. Storage failures are logged
// and recorded in Durability; they never fail the call.
type Store struct {
	storage profileout.LocalStorage
	logger  hclog.Logger
	key     string

	// publishMu orders notifications; it is taken before mu and released after
	// subscribers return.
	publishMu sync.Mutex
	mu        sync.Mutex
	profile   domain.Profile
	ready     bool
	writeErr  error
	subs      map[int]func(domain.Profile)
	nextSub   int
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithLogger(logger hclog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func NewStore(storage profileout.LocalStorage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  hclog.NewNullLogger(),
		key:     StorageKey,
		profile: domain.Default(),
		subs:    map[int]func(domain.Profile){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("profile")
	return s
}

// Load hydrates the store from storage on first use and returns the current
// profile. A corrupt persisted value is left in place.
func (s *Store) Load(ctx context.Context) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked(ctx)
	return s.profile.Clone()
}

func (s *Store) hydrateLocked(ctx context.Context) {
	if s.ready {
		return
	}
	defer func() { s.ready = true }()

	payload, found, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.logger.Warn("read persisted profile failed, using defaults", "key", s.key, "error", err)
		return
	}
	if !found {
		s.logger.Debug("no persisted profile, using defaults", "key", s.key)
		return
	}
	profile, err := domain.Decode(payload)
	if err != nil {
		s.logger.Warn("failed to parse profile, using defaults", "key", s.key, "error", err)
		return
	}
	s.profile = profile
	s.logger.Debug("profile hydrated", "sessions", len(profile.Sessions))
}

// Ready reports whether Load has resolved, distinguishing "not hydrated yet"
// from "hydrated to defaults".
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *Store) Profile(ctx context.Context) domain.Profile {
	return s.Load(ctx)
}

// Update merges patch into the current profile, persists and publishes it.
// An empty patch changes nothing and writes nothing.
func (s *Store) Update(ctx context.Context, patch domain.Patch) (domain.Profile, error) {
	return s.UpdateWith(ctx, func(domain.Profile) (domain.Patch, error) { return patch, nil })
}

// UpdateWith computes the patch from the current profile while holding the
// store lock, so read-modify-write sequences are not interleaved. An error
// from fn or an invalid patch aborts without any write.
func (s *Store) UpdateWith(ctx context.Context, fn func(current domain.Profile) (domain.Patch, error)) (domain.Profile, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.hydrateLocked(ctx)
	patch, err := fn(s.profile.Clone())
	if err == nil {
		err = patch.Validate()
	}
	if err != nil {
		current := s.profile.Clone()
		s.mu.Unlock()
		return current, err
	}
	if patch.IsEmpty() {
		current := s.profile.Clone()
		s.mu.Unlock()
		return current, nil
	}
	s.profile = s.profile.Merge(patch)
	s.persistLocked(ctx)
	next, subs := s.snapshotLocked()
	s.mu.Unlock()

	publish(subs, next)
	return next.Clone(), nil
}

// Reset replaces the profile with the compiled-in default and persists it.
func (s *Store) Reset(ctx context.Context) domain.Profile {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.ready = true
	s.profile = domain.Default()
	s.persistLocked(ctx)
	next, subs := s.snapshotLocked()
	s.mu.Unlock()

	publish(subs, next)
	return next.Clone()
}

func (s *Store) persistLocked(ctx context.Context) {
	payload, err := domain.Encode(s.profile)
	if err == nil {
		err = s.storage.SetItem(ctx, s.key, payload)
	}
	if err != nil {
		s.writeErr = err
		s.logger.Error("persist profile failed, continuing in memory", "key", s.key, "error", err)
		return
	}
	if s.writeErr != nil {
		s.logger.Info("profile persistence recovered", "key", s.key)
	}
	s.writeErr = nil
}

func (s *Store) snapshotLocked() (domain.Profile, []func(domain.Profile)) {
	subs := make([]func(domain.Profile), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return s.profile.Clone(), subs
}

func publish(subs []func(domain.Profile), profile domain.Profile) {
	for _, fn := range subs {
		fn(profile.Clone())
	}
}

// Durability returns the error of the last failed write, or nil once a write
// has succeeded again.
func (s *Store) Durability() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

// Subscribe registers fn for every published profile, in publish order.
// fn must not call Update, UpdateWith or Reset.
func (s *Store) Subscribe(fn func(domain.Profile)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
