package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-team/shareit-server/internal/domain/booking"
	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
	"github.com/shareit-team/shareit-server/internal/events"
	"github.com/shareit-team/shareit-server/pkg/domain"
	"github.com/shareit-team/shareit-server/pkg/metrics"
)

// BookingService is the application service orchestrating the booking lifecycle.
type BookingService struct {
	repo   bookingDomain.BookingRepository
	users  userDomain.UserRepository
	items  itemDomain.ItemRepository
	tx     Transactor
	events emitter
	logger *zap.Logger
	now    func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	items itemDomain.ItemRepository,
	tx Transactor,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:   repo,
		users:  users,
		items:  items,
		tx:     tx,
		events: emitter{producer: producer, logger: logger},
		logger: logger,
		now:    utcNow,
	}
}

// CreateBooking requests item req.ItemID for userID. The booking starts WAITING.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*BookingDTO, error) {
	now := s.now()

	var created *bookingDomain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		booker, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		it, err := s.items.FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		bk, err := bookingDomain.NewBooking(booker, it, req.Start.Time(), req.End.Time(), now)
		if err != nil {
			return err
		}

		created, err = s.repo.Save(ctx, bk)
		if err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info("booking created",
		zap.Int64("booking_id", created.ID()),
		zap.Int64("item_id", created.ItemID()),
		zap.Int64("booker_id", userID),
	)

	s.events.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, created.ID(), events.BookingCreatedEvent{
		BookingID:  created.ID(),
		ItemID:     created.ItemID(),
		BookerID:   created.BookerID(),
		OwnerID:    created.OwnerID(),
		Start:      created.Start(),
		End:        created.End(),
		OccurredAt: now,
	})

	result := toBookingDTO(created)
	return &result, nil
}

// ApproveBooking records the owner's decision on a WAITING booking. The booking row
// stays locked from read to write so concurrent decisions serialize.
func (s *BookingService) ApproveBooking(ctx context.Context, userID, bookingID int64, approved bool) (*BookingDTO, error) {
	now := s.now()

	var bk *bookingDomain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		bk, err = s.repo.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := s.requireUser(ctx, userID); err != nil {
			return err
		}

		if err := bk.Decide(userID, approved, now); err != nil {
			return err
		}
		return s.repo.Update(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingDecision(bk.Status().String())
	s.logger.Info("booking decided",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("owner_id", userID),
		zap.String("status", bk.Status().String()),
	)

	eventType := events.BookingRejected
	if bk.Status() == bookingDomain.StatusApproved {
		eventType = events.BookingApproved
	}
	s.events.publishEvent(ctx, events.TopicBookingEvents, eventType, bk.ID(), events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    bk.OwnerID(),
		Status:     bk.Status().String(),
		OccurredAt: now,
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking visible to its booker and to the item owner only.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeViewedBy(userID) {
		return nil, domain.NewNotAuthorizedError(fmt.Sprintf("Wrong user: id=%d", userID))
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookerBookings lists bookings made by userID matching the state filter.
func (s *BookingService) ListBookerBookings(ctx context.Context, userID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, userID, bookingDomain.RoleBooker, state, from, size)
}

// ListOwnerBookings lists bookings of items owned by userID matching the state filter.
func (s *BookingService) ListOwnerBookings(ctx context.Context, userID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, userID, bookingDomain.RoleOwner, state, from, size)
}

func (s *BookingService) list(ctx context.Context, userID int64, role bookingDomain.Role, rawState string, from, size int) ([]BookingDTO, error) {
	state, err := bookingDomain.ParseState(rawState)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	q := bookingDomain.Query{ActorID: userID, Role: role, State: state, Now: s.now()}
	bookings, err := s.repo.List(ctx, q, domain.NewPage(from, size))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("bookings listed",
		zap.Int64("user_id", userID),
		zap.Stringer("role", role),
		zap.String("state", string(state)),
		zap.Int("count", len(bookings)),
	)
	return toBookingDTOs(bookings), nil
}

func (s *BookingService) requireUser(ctx context.Context, userID int64) error {
	return requireUser(ctx, s.users, userID)
}

func requireUser(ctx context.Context, users userDomain.UserRepository, userID int64) error {
	ok, err := users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}
