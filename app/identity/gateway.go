// Package identity integrates the external identity service: a narrow
// gateway for profile lookups plus a read-through cache that keeps the rest
// of the system usable when the identity service is slow or down.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"community/app/models"
)

// ErrIdentityUnavailable is returned when the identity service cannot be
// reached within the configured timeout.
var ErrIdentityUnavailable = errors.New("identity service unavailable")

// ProfileSnapshot is a point-in-time copy of an externally-owned identity
// record. LastSyncedAt is set by the cache when the snapshot is stored.
type ProfileSnapshot struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    string    `json:"avatarUrl"`
	Roles        []string  `json:"roles"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
}

// Gateway is the synchronous lookup interface to the identity service.
// FetchProfile returns models.ErrNotFound when the user does not exist and
// ErrIdentityUnavailable on transport failure.
type Gateway interface {
	FetchProfile(ctx context.Context, userID string) (*ProfileSnapshot, error)
	Exists(ctx context.Context, userID string) (bool, error)
}

// HTTPGateway talks to the identity service over HTTP with a bounded
// client timeout so no request blocks indefinitely.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a gateway against the given base URL.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchProfile retrieves the full profile for a user.
func (g *HTTPGateway) FetchProfile(ctx context.Context, userID string) (*ProfileSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.profileURL(userID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var snapshot ProfileSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			return nil, fmt.Errorf("%w: malformed profile response: %v", ErrIdentityUnavailable, err)
		}
		snapshot.UserID = userID
		return &snapshot, nil
	case http.StatusNotFound:
		return nil, models.ErrNotFound
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrIdentityUnavailable, resp.StatusCode)
	}
}

// Exists checks whether a user exists without fetching the full profile.
func (g *HTTPGateway) Exists(ctx context.Context, userID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, g.profileURL(userID), nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected status %d", ErrIdentityUnavailable, resp.StatusCode)
	}
}

func (g *HTTPGateway) profileURL(userID string) string {
	return fmt.Sprintf("%s/api/profiles/%s", g.baseURL, userID)
}
