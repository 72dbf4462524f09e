// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the sole entity in the system, representing a registered account.
// The password is only ever held as a bcrypt hash; the plaintext never
// reaches this struct.
type User struct {
	ID           uuid.UUID  // The Global Unique Identifier for the user. Immutable once assigned.
	Username     string     // Unique login handle.
	Email        string     // Unique contact email.
	PasswordHash string     // The bcrypt-hashed password. Never empty for a persisted user.
	FirstName    *string    // Optional given name.
	LastName     *string    // Optional family name.
	Avatar       *string    // Optional avatar reference (URL or storage key).
	About        *string    // Optional free-text self description.
	DateOfBirth  *time.Time // Optional date of birth.
	IsSuperuser  bool       // Grants access to administrative surfaces. Defaults to false.
	CreatedAt    time.Time  // Server-assigned timestamp of registration.
}
