package booking

import (
	"fmt"
	"time"

	"github.com/shareit-team/shareit-server/internal/domain/item"
	"github.com/shareit-team/shareit-server/internal/domain/user"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

// Booking is the aggregate root for the booking domain. It carries the booked item
// and the booker so callers can present them without further lookups.
type Booking struct {
	id     int64
	start  time.Time
	end    time.Time
	item   *item.Item
	booker *user.User
	status BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a WAITING booking of it by booker for [start, end).
// Rules are checked in order: self-booking, item availability, date range.
func NewBooking(booker *user.User, it *item.Item, start, end, now time.Time) (*Booking, error) {
	if it.IsOwnedBy(booker.ID()) {
		return nil, domain.NewNotAvailableError(fmt.Sprintf("Item with id %d is not available for booking", it.ID()))
	}
	if !it.IsAvailable() {
		return nil, domain.NewValidationError(fmt.Sprintf("Item with id %d is not available", it.ID()))
	}
	if !start.After(now) || !end.After(now) || !start.Before(end) {
		return nil, domain.NewValidationError("Date is not correct")
	}

	return &Booking{
		start:     start.UTC(),
		end:       end.UTC(),
		item:      it,
		booker:    booker,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	start, end time.Time,
	it *item.Item,
	booker *user.User,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		start:     start,
		end:       end,
		item:      it,
		booker:    booker,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's identifier, zero until persisted.
func (b *Booking) ID() int64 { return b.id }

// Start returns the start of the booked window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the booked window.
func (b *Booking) End() time.Time { return b.end }

// Item returns the booked item.
func (b *Booking) Item() *item.Item { return b.item }

// Booker returns the requesting user.
func (b *Booking) Booker() *user.User { return b.booker }

// ItemID returns the booked item's id.
func (b *Booking) ItemID() int64 { return b.item.ID() }

// BookerID returns the requesting user's id.
func (b *Booking) BookerID() int64 { return b.booker.ID() }

// OwnerID returns the id of the booked item's owner.
func (b *Booking) OwnerID() int64 { return b.item.OwnerID() }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// CanBeViewedBy reports whether userID is the booker or the item owner.
func (b *Booking) CanBeViewedBy(userID int64) bool {
	return b.BookerID() == userID || b.OwnerID() == userID
}

// Decide approves or rejects a WAITING booking on behalf of the item owner.
// A successful decision bumps the version.
func (b *Booking) Decide(actorID int64, approved bool, now time.Time) error {
	if b.OwnerID() != actorID {
		return domain.NewNotAuthorizedError("You are not the owner of this item!")
	}

	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if b.status.IsTerminal() || !b.status.CanTransitionTo(target) {
		return domain.NewValidationError(fmt.Sprintf("Booking not available: id=%d", b.id))
	}

	b.status = target
	b.version++
	b.updatedAt = now
	return nil
}

