package item

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// MaxDescriptionLength bounds an item description in characters.
const MaxDescriptionLength = 200

// Item is the aggregate root for a listed thing that other users can book.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
	requestID   *int64
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates a new listing owned by ownerID. requestID links the listing to the
// item request it answers.
func NewItem(ownerID int64, name, description string, available *bool, requestID *int64) (*Item, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, domain.NewFieldValidationError("name", "must not be blank")
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if available == nil {
		return nil, domain.NewFieldValidationError("available", "must not be null")
	}

	now := time.Now().UTC()
	return &Item{
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   *available,
		requestID:   requestID,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, description string,
	available bool,
	requestID *int64,
	version int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() int64            { return i.id }
func (i *Item) OwnerID() int64       { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) IsAvailable() bool    { return i.available }
func (i *Item) RequestID() *int64    { return i.requestID }
func (i *Item) Version() int64       { return i.version }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the item belongs to the given user.
func (i *Item) IsOwnedBy(userID int64) bool {
	return i.ownerID == userID
}

// Update applies partial updates. Nil or blank values leave the field unchanged.
func (i *Item) Update(name, description *string, available *bool) error {
	if name != nil && strings.TrimSpace(*name) != "" {
		i.name = strings.TrimSpace(*name)
	}
	if description != nil && strings.TrimSpace(*description) != "" {
		d := strings.TrimSpace(*description)
		if err := validateDescription(d); err != nil {
			return err
		}
		i.description = d
	}
	if available != nil {
		i.available = *available
	}
	i.version++
	i.updatedAt = time.Now().UTC()
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return domain.NewFieldValidationError("description", "must not be blank")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return domain.NewFieldValidationError("description", "size must be at most 200")
	}
	return nil
}
