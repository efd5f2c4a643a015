// Package events defines the domain events exchanged over Kafka and the consumers
// that react to them.
package events

import "time"

// Source identifies this service in CloudEvent envelopes.
const Source = "shareit-server"

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicUserEvents    = "user.events"
	TopicItemEvents    = "item.events"
)

// Event types.
const (
	BookingCreated  = "booking.created"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"

	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"

	ItemCreated = "item.created"
	ItemUpdated = "item.updated"
)

// BookingCreatedEvent is published when a booking request is stored.
type BookingCreatedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is published when an owner approves or rejects a booking.
type BookingDecidedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserChangedEvent is published when a user is updated or deleted.
type UserChangedEvent struct {
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemChangedEvent is published when an item is listed or edited.
type ItemChangedEvent struct {
	ItemID     int64     `json:"item_id"`
	OwnerID    int64     `json:"owner_id"`
	Available  bool      `json:"available"`
	RequestID  *int64    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
