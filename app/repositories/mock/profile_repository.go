package mock

import (
	"sync"

	"community/app/identity"
	"community/app/models"
)

// ProfileRepository is an in-memory identity.ProfileRepository.
type ProfileRepository struct {
	mutex    sync.RWMutex
	profiles map[string]*identity.ProfileSnapshot
}

// NewProfileRepository creates an empty profile store.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]*identity.ProfileSnapshot),
	}
}

// Clear drops all stored snapshots.
func (m *ProfileRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.profiles = make(map[string]*identity.ProfileSnapshot)
}

// Save stores or replaces a snapshot.
func (m *ProfileRepository) Save(snapshot *identity.ProfileSnapshot) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	copied := *snapshot
	m.profiles[snapshot.UserID] = &copied
	return nil
}

// FindByID retrieves a snapshot.
func (m *ProfileRepository) FindByID(userID string) (*identity.ProfileSnapshot, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snapshot, exists := m.profiles[userID]
	if !exists {
		return nil, models.ErrNotFound
	}
	copied := *snapshot
	return &copied, nil
}

// Delete removes a snapshot.
func (m *ProfileRepository) Delete(userID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.profiles[userID]; !exists {
		return models.ErrNotFound
	}
	delete(m.profiles, userID)
	return nil
}
