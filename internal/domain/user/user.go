package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

var validate = validator.New()

// User is the aggregate root for a marketplace member.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a user that has not been persisted yet.
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
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

// Update applies a partial update. Nil or blank values leave the field unchanged.
func (u *User) Update(name, email *string) error {
	if name != nil && strings.TrimSpace(*name) != "" {
		u.name = strings.TrimSpace(*name)
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		e := strings.TrimSpace(*email)
		if err := validateEmail(e); err != nil {
			return err
		}
		u.email = e
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

func validateName(name string) error {
	if name == "" {
		return domain.NewFieldValidationError("name", "must not be blank")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewFieldValidationError("email", "must not be blank")
	}
	if err := validate.Var(email, "email"); err != nil {
		return domain.NewFieldValidationError("email", "must be a well-formed email address")
	}
	return nil
}
