package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/homeworkhelper/internal/store"
)

// SessionKey is the blob key the signed-in user is stored under.
const SessionKey = "homeworkHelper_user"

// Store loads and saves the signed-in user.
type Store struct {
	repo store.SessionRepo
}

// NewStore creates a Store over a session repository.
func NewStore(repo store.SessionRepo) *Store {
	return &Store{repo: repo}
}

// Load returns the signed-in user, or nil when signed out.
func (s *Store) Load(ctx context.Context) (*User, error) {
	data, ok, err := s.repo.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &u, nil
}

// Save stores the user as the signed-in account.
func (s *Store) Save(ctx context.Context, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Put(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear signs the user out.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Meter charges the signed-in user for each question and persists the new
// balance.
type Meter struct {
	store *Store
	user  *User
}

// Meter returns a Meter for u.
func (s *Store) Meter(u *User) *Meter {
	return &Meter{store: s, user: u}
}

// Charge consumes one credit and saves the profile. Unmetered plans are
// not written. The in-memory balance only changes once the save succeeds.
func (m *Meter) Charge(ctx context.Context) error {
	if m.user == nil || !m.user.Plan.Metered() {
		return nil
	}
	charged := *m.user
	if err := charged.Charge(); err != nil {
		return err
	}
	if err := m.store.Save(ctx, &charged); err != nil {
		return err
	}
	m.user.Credits = charged.Credits
	return nil
}
