package booking

import (
	"strings"
	"time"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// State is a client-facing list filter. It is derived from status and the booked
// window relative to a query instant and is never persisted.
type State string

const (
	StateAll      State = "ALL"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateCurrent  State = "CURRENT"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var knownStates = map[State]struct{}{
	StateAll:      {},
	StatePast:     {},
	StateFuture:   {},
	StateCurrent:  {},
	StateWaiting:  {},
	StateRejected: {},
}

// ParseState resolves a filter token case-insensitively. Unknown tokens fail with
// UNSUPPORTED_STATE naming the token as given.
func ParseState(raw string) (State, error) {
	s := State(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownStates[s]; !ok {
		return "", domain.NewUnsupportedStateError(raw)
	}
	return s, nil
}

// Matches reports whether b falls under the state at instant now.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StatePast:
		return b.end.Before(now)
	case StateFuture:
		return b.start.After(now)
	case StateCurrent:
		return b.start.Before(now) && b.end.After(now)
	case StateWaiting:
		return b.status == StatusWaiting
	case StateRejected:
		return b.status == StatusRejected
	}
	return false
}

// Role selects whose bookings a list query scopes to.
type Role int

const (
	// RoleBooker lists bookings the actor made.
	RoleBooker Role = iota
	// RoleOwner lists bookings of items the actor owns.
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "booker"
}

// Query is a resolved list request. Results are always sorted by start, newest first.
type Query struct {
	ActorID int64
	Role    Role
	State   State
	Now     time.Time
}

// Matches reports whether b is in the actor's scope and matches the state.
func (q Query) Matches(b *Booking) bool {
	switch q.Role {
	case RoleOwner:
		if b.OwnerID() != q.ActorID {
			return false
		}
	default:
		if b.BookerID() != q.ActorID {
			return false
		}
	}
	return q.State.Matches(b, q.Now)
}

// LastAndNext picks the owner-facing neighbours of now among approved bookings:
// last is the one that started before now with the latest end, next is the one
// starting soonest after now.
func LastAndNext(bookings []*Booking, now time.Time) (last, next *Booking) {
	for _, b := range bookings {
		if b.status != StatusApproved {
			continue
		}
		switch {
		case b.start.Before(now):
			if last == nil || b.end.After(last.end) {
				last = b
			}
		case b.start.After(now):
			if next == nil || b.start.Before(next.start) {
				next = b
			}
		}
	}
	return last, next
}
