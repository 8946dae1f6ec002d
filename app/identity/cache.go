package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"community/app/models"
)

// DefaultStaleAfter is how long a cached profile is served without
// re-contacting the identity service.
const DefaultStaleAfter = 60 * time.Minute

// ProfileRepository is the local store backing the cache. FindByID returns
// models.ErrNotFound when no entry exists. Concurrent refreshes are
// last-writer-wins; snapshots are idempotent so that is safe.
type ProfileRepository interface {
	Save(snapshot *ProfileSnapshot) error
	FindByID(userID string) (*ProfileSnapshot, error)
	Delete(userID string) error
}

// ProfileCache is a cache-aside layer over the identity gateway. Fresh
// entries are served without I/O; stale entries are refreshed but fall back
// to the last known good snapshot when the gateway fails. Absence from the
// cache never implies the user does not exist.
type ProfileCache struct {
	store      ProfileRepository
	gateway    Gateway
	staleAfter time.Duration
	now        func() time.Time
}

// NewProfileCache creates a cache with the given staleness threshold.
// A non-positive staleAfter falls back to DefaultStaleAfter.
func NewProfileCache(store ProfileRepository, gateway Gateway, staleAfter time.Duration) *ProfileCache {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &ProfileCache{
		store:      store,
		gateway:    gateway,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Get returns the profile for a user, preferring the cached snapshot. A
// fresh entry is returned without contacting the gateway at all. A stale
// entry triggers a refresh, but a failed refresh falls back to the stale
// snapshot rather than failing the caller. Only a cache miss with a failing
// gateway surfaces an error.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*ProfileSnapshot, error) {
	cached, err := c.store.FindByID(userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		// Nothing to fall back to.
		return c.Refresh(ctx, userID)
	}

	if c.now().Sub(cached.LastSyncedAt) < c.staleAfter {
		return cached, nil
	}

	fresh, err := c.Refresh(ctx, userID)
	if err != nil {
		slog.Warn("profile refresh failed, serving stale snapshot",
			"user_id", userID, "last_synced_at", cached.LastSyncedAt, "error", err)
		return cached, nil
	}
	return fresh, nil
}

// Refresh fetches the profile from the gateway and updates the cache.
func (c *ProfileCache) Refresh(ctx context.Context, userID string) (*ProfileSnapshot, error) {
	snapshot, err := c.gateway.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot.LastSyncedAt = c.now().UTC()
	if err := c.store.Save(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Evict removes a user's cached snapshot.
func (c *ProfileCache) Evict(userID string) error {
	err := c.store.Delete(userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}

// Exists reports whether the user exists. Any cached entry, stale or not,
// is a valid existence signal; only on a miss is the gateway consulted.
func (c *ProfileCache) Exists(ctx context.Context, userID string) (bool, error) {
	if _, err := c.store.FindByID(userID); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	return c.gateway.Exists(ctx, userID)
}

// WithClock overrides the cache's clock. Intended for tests.
func (c *ProfileCache) WithClock(now func() time.Time) *ProfileCache {
	c.now = now
	return c
}
