package user

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates a user with that username already exists.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidUsername indicates the username is empty or invalid.
	ErrInvalidUsername = errors.New("invalid username")
)

// Directory is the in-memory list of users behind user management.
// Nothing is persisted.
type Directory struct {
	mu    sync.Mutex
	users []User
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// NewSampleDirectory creates a directory seeded with the placeholder accounts.
func NewSampleDirectory() *Directory {
	d := NewDirectory()
	for _, u := range []User{
		{Username: "admin", FirstName: "Admin", LastName: "User", Role: RoleAdmin},
		{Username: "john.doe", FirstName: "John", LastName: "Doe", Role: RoleUser},
		{Username: "jane.smith", FirstName: "Jane", LastName: "Smith", Role: RoleUser},
	} {
		u.Email = EmailFor(u.Username)
		u.Active = true
		_ = d.Add(u)
	}
	return d
}

// Add adds a new user. Returns ErrUserExists if the username is taken.
// Missing ID and CreatedAt are filled in.
func (d *Directory) Add(u User) error {
	if u.Username == "" {
		return ErrInvalidUsername
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.users {
		if existing.Username == u.Username {
			return fmt.Errorf("%w: %s", ErrUserExists, u.Username)
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	d.users = append(d.users, u)
	return nil
}

// NewPlaceholder adds and returns a "new user" entry named after the
// directory size (user4, user5, ...).
func (d *Directory) NewPlaceholder() (User, error) {
	d.mu.Lock()
	n := len(d.users) + 1
	d.mu.Unlock()

	for {
		username := fmt.Sprintf("user%d", n)
		u := User{
			Username:  username,
			Email:     EmailFor(username),
			FirstName: "New",
			LastName:  "User",
			Role:      RoleUser,
		}
		err := d.Add(u)
		if err == nil {
			return d.Get(username)
		}
		if !errors.Is(err, ErrUserExists) {
			return User{}, err
		}
		n++
	}
}

// Get returns a copy of the user with the given username.
func (d *Directory) Get(username string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

// List returns all users in insertion order.
func (d *Directory) List() []User {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// Remove removes a user by username.
func (d *Directory) Remove(username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, u := range d.users {
		if u.Username == username {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

// Exists checks if a user with the given username exists.
func (d *Directory) Exists(username string) bool {
	_, err := d.Get(username)
	return err == nil
}

// Len returns the number of users.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}
