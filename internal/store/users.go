package store

import (
	"context"
	"strings"
	"sync"

	"github.com/classtrack/classtrack-api/internal/models"
	"github.com/classtrack/classtrack-api/internal/syncstore"
)

// Users holds the teacher accounts allowed to sign in. Accounts are
// provisioned directly in the remote store, there is no registration
// endpoint.
type Users struct {
	adapter syncstore.Adapter

	mu      sync.RWMutex
	byEmail map[string]models.User
}

// NewUsers constructs an empty user store backed by the adapter.
func NewUsers(adapter syncstore.Adapter) *Users {
	return &Users{adapter: adapter, byEmail: make(map[string]models.User)}
}

// Hydrate loads the users collection.
func (u *Users) Hydrate(ctx context.Context) error {
	raw, err := u.adapter.LoadCollection(ctx, syncstore.CollectionUsers)
	if err != nil {
		return err
	}
	byEmail := make(map[string]models.User, len(raw))
	for _, doc := range raw {
		user, err := syncstore.ParseUser(doc)
		if err != nil {
			return err
		}
		byEmail[strings.ToLower(user.Email)] = user
	}

	u.mu.Lock()
	u.byEmail = byEmail
	u.mu.Unlock()
	return nil
}

// FindByEmail looks up a user by email, case-insensitively.
func (u *Users) FindByEmail(email string) (models.User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.byEmail[strings.ToLower(email)]
	return user, ok
}
