//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareit-team/shareit-server/internal/application"
	"github.com/shareit-team/shareit-server/internal/events"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

func boolPtr(b bool) *bool { return &b }

// TestBookingLifecycle runs create, approve and list against Postgres and checks
// that the decision is published to booking.events.
func TestBookingLifecycle(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.Cleanup()
	ctx := context.Background()

	owner, err := stack.Users.CreateUser(ctx, application.CreateUserRequest{Name: "Owner", Email: "owner@example.com"})
	require.NoError(t, err)
	booker, err := stack.Users.CreateUser(ctx, application.CreateUserRequest{Name: "Booker", Email: "booker@example.com"})
	require.NoError(t, err)

	drill, err := stack.Items.CreateItem(ctx, owner.ID, application.CreateItemRequest{
		Name: "Drill", Description: "Cordless drill", Available: boolPtr(true),
	})
	require.NoError(t, err)

	start := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	created, err := stack.Bookings.CreateBooking(ctx, booker.ID, application.CreateBookingRequest{
		ItemID: drill.ID, Start: application.NewLocalDateTime(start), End: application.NewLocalDateTime(start.Add(24 * time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, "WAITING", created.Status)

	// the owner cannot book their own item
	_, err = stack.Bookings.CreateBooking(ctx, owner.ID, application.CreateBookingRequest{
		ItemID: drill.ID, Start: application.NewLocalDateTime(start), End: application.NewLocalDateTime(start.Add(time.Hour)),
	})
	assert.Equal(t, domain.KindNotAvailable, domain.KindOf(err))

	approved, err := stack.Bookings.ApproveBooking(ctx, owner.ID, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)

	_, err = stack.Bookings.ApproveBooking(ctx, owner.ID, created.ID, false)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	future, err := stack.Bookings.ListOwnerBookings(ctx, owner.ID, "FUTURE", 0, 10)
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, created.ID, future[0].ID)
	assert.Equal(t, "Booker", future[0].Booker.Name)

	current, err := stack.Bookings.ListBookerBookings(ctx, booker.ID, "current", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, current)

	item, err := stack.Items.GetItem(ctx, owner.ID, drill.ID)
	require.NoError(t, err)
	require.NotNil(t, item.NextBooking)
	assert.Equal(t, created.ID, item.NextBooking.ID)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents, events.BookingApproved, 15*time.Second)
	var decided events.BookingDecidedEvent
	require.NoError(t, ce.ParseData(&decided))
	assert.Equal(t, created.ID, decided.BookingID)
	assert.Equal(t, owner.ID, decided.OwnerID)
	assert.Equal(t, "APPROVED", decided.Status)
}

// TestConcurrentDecisions checks that of two racing decisions on the same booking
// exactly one wins.
func TestConcurrentDecisions(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.Cleanup()
	ctx := context.Background()

	owner, err := stack.Users.CreateUser(ctx, application.CreateUserRequest{Name: "Owner", Email: "owner@example.com"})
	require.NoError(t, err)
	booker, err := stack.Users.CreateUser(ctx, application.CreateUserRequest{Name: "Booker", Email: "booker@example.com"})
	require.NoError(t, err)
	drill, err := stack.Items.CreateItem(ctx, owner.ID, application.CreateItemRequest{
		Name: "Drill", Description: "Cordless drill", Available: boolPtr(true),
	})
	require.NoError(t, err)

	start := time.Now().UTC().Add(time.Hour)
	created, err := stack.Bookings.CreateBooking(ctx, booker.ID, application.CreateBookingRequest{
		ItemID: drill.ID, Start: application.NewLocalDateTime(start), End: application.NewLocalDateTime(start.Add(time.Hour)),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, decision := range []bool{true, false} {
		wg.Add(1)
		go func(i int, approved bool) {
			defer wg.Done()
			_, results[i] = stack.Bookings.ApproveBooking(ctx, owner.ID, created.ID, approved)
		}(i, decision)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		kind := domain.KindOf(err)
		assert.True(t, kind == domain.KindValidation || kind == domain.KindConflict, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
}

// TestUserEventsEvictCache verifies that a user.updated event from another replica
// drops the local cache entry so the next read sees the new name.
func TestUserEventsEvictCache(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.Cleanup()
	defer func() { _ = stack.Consumer.Close() }()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ann, err := stack.Users.CreateUser(ctx, application.CreateUserRequest{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	_, err = stack.Users.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stack.UserRepo.Len())

	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// another replica renames the user behind this replica's cache
	require.NoError(t, infra.DB.Exec("UPDATE users SET name = ? WHERE id = ?", "Ann B", ann.ID).Error)
	publishTestEvent(t, infra.KafkaBrokers, events.TopicUserEvents, events.UserUpdated, "ann",
		events.UserChangedEvent{UserID: ann.ID, OccurredAt: time.Now().UTC()})

	require.Eventually(t, func() bool {
		u, err := stack.Users.GetUser(ctx, ann.ID)
		return err == nil && u.Name == "Ann B"
	}, 15*time.Second, 200*time.Millisecond)
}
