// Package directory holds the in-memory user registry. It is the sole source of
// truth for "does this email exist". Contents reset to seed data on restart;
// users appended at runtime live only in memory.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bookline/internal/identity/models"
)

// ErrNotFound is returned when no user matches a lookup.
var ErrNotFound = errors.New("not found")

// Error Contract:
// All lookup methods return a wrapped ErrNotFound when no user matches.
// Append never enforces uniqueness; that is the identity service's responsibility.
type Directory struct {
	mu    sync.RWMutex
	users []*models.User
}

// New constructs an empty directory.
func New() *Directory {
	return &Directory{}
}

// FindByEmail returns the user with the exact (case-sensitive) email.
// Linear scan; the directory holds a demo-scale dataset.
func (d *Directory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, user := range d.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %q not found: %w", email, ErrNotFound)
}

// Append adds a user to the directory.
func (d *Directory) Append(_ context.Context, user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, user)
	return nil
}

// First returns the first user in insertion order.
func (d *Directory) First(_ context.Context) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.users) == 0 {
		return nil, fmt.Errorf("directory is empty: %w", ErrNotFound)
	}
	return d.users[0], nil
}

// FirstByType returns the first user of the given type in insertion order.
func (d *Directory) FirstByType(_ context.Context, userType models.UserType) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, user := range d.users {
		if user.UserType == userType {
			return user, nil
		}
	}
	return nil, fmt.Errorf("no %s user: %w", userType, ErrNotFound)
}

// Len reports the number of users currently registered.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
