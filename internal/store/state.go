package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tillpoint/internal/model"

	"github.com/rs/zerolog/log"
)

// Data is the full in-memory application state. The cart is deliberately
// transient: it is not in AllKeys and never reaches the backend.
type Data struct {
	Products    []model.Product
	Sales       []model.Sale
	Users       []model.User
	Settings    model.Settings
	External    model.ExternalServices
	DarkMode    bool
	CurrentUser string
	LoginTime   time.Time
	CloudBackup model.CloudBackupInfo
	Cart        model.Cart
}

// State is the single owner of all mutable application state. Every
// subsystem reads and writes through View/Update, which also track which
// persisted keys became dirty so Flush only rewrites what changed.
//
// The source system was single-threaded; the HTTP server is not, so the
// mutex here is what makes Update the unit of atomicity — the moral
// equivalent of the database transaction in a conventional backend.
type State struct {
	mu    sync.RWMutex
	kv    KV
	data  Data
	dirty map[string]bool
}

// NewState builds an empty state bound to kv. kv may be nil in unit tests;
// Flush then becomes a no-op, mirroring how services run without a backend.
func NewState(kv KV) *State {
	return &State{
		kv: kv,
		data: Data{
			Settings: model.DefaultSettings(),
		},
		dirty: make(map[string]bool),
	}
}

// View runs fn under the read lock. fn must not retain pointers into Data.
func (s *State) View(fn func(d *Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Update runs fn under the write lock and marks the returned keys dirty.
// Returning no keys is valid for cart-only mutations.
func (s *State) Update(fn func(d *Data) []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range fn(&s.data) {
		s.dirty[k] = true
	}
}

// Load reads every persisted key. Loading fails soft: a missing key keeps
// its default and a corrupt key logs a warning and keeps its default — the
// session must start even when storage is damaged.
func (s *State) Load(ctx context.Context) {
	if s.kv == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loadKey(ctx, s.kv, KeyProducts, &s.data.Products)
	loadKey(ctx, s.kv, KeySales, &s.data.Sales)
	loadKey(ctx, s.kv, KeyUsers, &s.data.Users)
	loadKey(ctx, s.kv, KeySettings, &s.data.Settings)
	loadKey(ctx, s.kv, KeyExternalServices, &s.data.External)
	loadKey(ctx, s.kv, KeyDarkMode, &s.data.DarkMode)
	loadKey(ctx, s.kv, KeyCurrentUser, &s.data.CurrentUser)
	loadKey(ctx, s.kv, KeyLoginTime, &s.data.LoginTime)
	loadKey(ctx, s.kv, KeyCloudBackup, &s.data.CloudBackup)
}

func loadKey(ctx context.Context, kv KV, key string, dst interface{}) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if err != ErrNotFound {
			log.Warn().Str("key", key).Err(err).Msg("state: load failed — using default")
		}
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("state: corrupt value — using default")
	}
}

// ExpireStaleSession clears the persisted session when the recorded login is
// older than maxAge. Performed once at startup, matching the source system's
// load-time expiry check.
func (s *State) ExpireStaleSession(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.CurrentUser == "" || s.data.LoginTime.IsZero() {
		return
	}
	if time.Since(s.data.LoginTime) > maxAge {
		log.Info().Str("user", s.data.CurrentUser).Msg("state: session expired — clearing")
		s.data.CurrentUser = ""
		s.data.LoginTime = time.Time{}
		s.dirty[KeyCurrentUser] = true
		s.dirty[KeyLoginTime] = true
	}
}

// Flush writes all dirty keys to the backend. Persistence errors are logged
// and returned but never roll back the in-memory state: the contract is
// graceful degradation, with worst case losing writes since the last
// successful flush.
func (s *State) Flush(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx, false)
}

// FlushAll writes every key regardless of dirtiness (shutdown, first boot).
func (s *State) FlushAll(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx, true)
}

func (s *State) flushLocked(ctx context.Context, all bool) error {
	var firstErr error
	for _, key := range AllKeys {
		if !all && !s.dirty[key] {
			continue
		}
		raw, err := json.Marshal(s.valueLocked(key))
		if err == nil {
			err = s.kv.Put(ctx, key, raw)
		}
		if err != nil {
			log.Error().Str("key", key).Err(err).Msg("state: flush failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delete(s.dirty, key)
	}
	return firstErr
}

func (s *State) valueLocked(key string) interface{} {
	switch key {
	case KeyProducts:
		return s.data.Products
	case KeySales:
		return s.data.Sales
	case KeyUsers:
		return s.data.Users
	case KeySettings:
		return s.data.Settings
	case KeyExternalServices:
		return s.data.External
	case KeyDarkMode:
		return s.data.DarkMode
	case KeyCurrentUser:
		return s.data.CurrentUser
	case KeyLoginTime:
		return s.data.LoginTime
	case KeyCloudBackup:
		return s.data.CloudBackup
	}
	return nil
}

// Snapshot serializes every persisted key for the cloud backup worker.
func (s *State) Snapshot() (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]json.RawMessage, len(AllKeys))
	for _, key := range AllKeys {
		raw, err := json.Marshal(s.valueLocked(key))
		if err != nil {
			return nil, err
		}
		snap[key] = raw
	}
	return snap, nil
}

// StartAutosave flushes dirty keys every interval until ctx is cancelled.
// The ticker only reads committed in-memory state, so it cannot conflict
// with request handlers beyond ordinary lock contention.
func (s *State) StartAutosave(ctx context.Context, interval time.Duration) {
	if s.kv == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Flush(context.Background()); err != nil {
					log.Error().Err(err).Msg("state: autosave flush failed")
				}
			}
		}
	}()
}
