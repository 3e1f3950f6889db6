package user

import "context"

// Repository defines the persistence contract for users.
type Repository interface {
	// FindByID retrieves a user by its identifier.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail retrieves the user with the given email, or nil when none
	// exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll retrieves all users ordered by id ascending.
	FindAll(ctx context.Context) ([]*User, error)

	// Save persists a new user and returns it with its assigned id.
	Save(ctx context.Context, u *User) (*User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// Delete removes a user by id.
	Delete(ctx context.Context, id int64) error
}
