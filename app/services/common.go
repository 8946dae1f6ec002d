// Package services orchestrates commands: the actor is validated through
// the profile cache, the aggregate applies its transition, and the new
// state plus the emitted events are committed in one unit of work. Events
// reach the outside world only through the outbox.
package services

import (
	"context"
	"fmt"

	"community/app/identity"
	"community/app/models"
)

// requireUser validates that the acting user exists. Stale cache entries
// count as existence; an error here means the identity service is down and
// the user has never been seen.
func requireUser(ctx context.Context, profiles *identity.ProfileCache, userID string) error {
	if userID == "" {
		return &models.ValidationError{Reason: "user id is required"}
	}
	ok, err := profiles.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("validating user %s: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return nil
}

// rolesOf fetches the actor's role set through the cache. Serving stale
// roles is acceptable; the staleness window bounds how long a revoked
// admin bit lingers.
func rolesOf(ctx context.Context, profiles *identity.ProfileCache, userID string) ([]string, error) {
	snapshot, err := profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving roles of user %s: %w", userID, err)
	}
	return snapshot.Roles, nil
}
