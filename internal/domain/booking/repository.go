package booking

import (
	"context"
	"time"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// BookingRepository defines the persistence contract for booking aggregates.
// Loaded bookings carry their item and booker.
type BookingRepository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByIDForUpdate retrieves a booking and locks its row until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*Booking, error)

	// List returns the bookings selected by q, sorted by start descending, in the given page.
	List(ctx context.Context, q Query, page domain.Page) ([]*Booking, error)

	// FindApprovedByItemIDs returns the approved bookings of the given items.
	FindApprovedByItemIDs(ctx context.Context, itemIDs []int64) ([]*Booking, error)

	// ExistsFinishedApproved reports whether bookerID has an approved booking of itemID that ended before now.
	ExistsFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	// Save persists a new booking and returns it with its assigned id.
	Save(ctx context.Context, b *Booking) (*Booking, error)

	// Update persists a decided booking with optimistic locking on the version.
	Update(ctx context.Context, b *Booking) error
}
