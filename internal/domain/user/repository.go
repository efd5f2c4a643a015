package user

import "context"

// UserRepository is the user directory.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Save inserts a new user and returns it with its assigned id.
	Save(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}
