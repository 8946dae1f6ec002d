// Package mock provides in-memory doubles for the service's external
// collaborators. They are injected where the real implementation would be;
// nothing in the production code paths reaches them except through the
// interfaces they implement.
package mock

import (
	"context"
	"sync"

	"community/app/identity"
	"community/app/models"
)

// Directory is an in-memory identity directory implementing
// identity.Gateway. It backs tests and local runs without an identity
// service. SetUnavailable simulates an outage.
type Directory struct {
	mutex       sync.RWMutex
	users       map[string]*identity.ProfileSnapshot
	unavailable bool
	fetchCalls  int
	existsCalls int
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]*identity.ProfileSnapshot),
	}
}

// AddUser registers a user profile.
func (d *Directory) AddUser(userID, username, displayName string, roles ...string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.users[userID] = &identity.ProfileSnapshot{
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
		Roles:       roles,
	}
}

// RemoveUser deletes a user profile.
func (d *Directory) RemoveUser(userID string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.users, userID)
}

// SetUnavailable toggles simulated identity-service downtime.
func (d *Directory) SetUnavailable(down bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.unavailable = down
}

// FetchCalls reports how many FetchProfile calls the directory served.
func (d *Directory) FetchCalls() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.fetchCalls
}

// ExistsCalls reports how many Exists calls the directory served.
func (d *Directory) ExistsCalls() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.existsCalls
}

// FetchProfile implements identity.Gateway.
func (d *Directory) FetchProfile(_ context.Context, userID string) (*identity.ProfileSnapshot, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.fetchCalls++
	if d.unavailable {
		return nil, identity.ErrIdentityUnavailable
	}
	user, exists := d.users[userID]
	if !exists {
		return nil, models.ErrNotFound
	}

	copied := *user
	copied.Roles = append([]string(nil), user.Roles...)
	return &copied, nil
}

// Exists implements identity.Gateway.
func (d *Directory) Exists(_ context.Context, userID string) (bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.existsCalls++
	if d.unavailable {
		return false, identity.ErrIdentityUnavailable
	}
	_, exists := d.users[userID]
	return exists, nil
}
