// Package storage provides abstractions for session and user storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billscan/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for billscan storage operations.
// The default backend is an in-memory SQLite database: sessions live
// only as long as the process, which is all this application needs.
// The abstraction keeps the service layer independent of that choice.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateSession persists a new session. The session.ID and
	// CreatedAt fields are populated by the store if unset.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session with its receipt and people.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// SaveReceipt replaces the stored receipt for a session.
	SaveReceipt(ctx context.Context, sessionID string, receipt *models.ReceiptData) error

	// AddPerson adds a participant to a session.
	AddPerson(ctx context.Context, sessionID string, person *models.Person) error

	// RemovePerson removes a participant and any item ownership
	// assignments referencing them.
	RemovePerson(ctx context.Context, sessionID, personID string) error

	// SetItemOwners replaces the owner set and inclusion flag of one
	// line item.
	SetItemOwners(ctx context.Context, sessionID, itemID string, owners []string, include bool) error

	// Close releases any resources held by the store.
	Close() error
}
