package user

import (
	"time"

	"github.com/shareit-market/service-rental/internal/domain"
)

// User is a marketplace account. The same user may list items as an owner
// and rent other users' items as a booker.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new User. Email format is validated at the application
// boundary; here only presence is enforced.
func NewUser(name, email string) (*User, error) {
	if email == "" {
		return nil, domain.NewValidationError("email cannot be null")
	}
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	now := time.Now().UTC()
	return &User{
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Update applies a partial update; nil fields are left unchanged.
func (u *User) Update(name, email *string) {
	if name != nil && *name != "" {
		u.name = *name
	}
	if email != nil && *email != "" {
		u.email = *email
	}
	u.updatedAt = time.Now().UTC()
}
