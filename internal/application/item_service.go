package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-team/shareit-server/internal/domain/booking"
	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-team/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
	"github.com/shareit-team/shareit-server/internal/events"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ItemService manages listings and their comments.
type ItemService struct {
	repo     itemDomain.ItemRepository
	comments itemDomain.CommentRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	requests requestDomain.ItemRequestRepository
	events   emitter
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	repo itemDomain.ItemRepository,
	comments itemDomain.CommentRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	requests requestDomain.ItemRequestRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		repo:     repo,
		comments: comments,
		bookings: bookings,
		users:    users,
		requests: requests,
		events:   emitter{producer: producer, logger: logger},
		logger:   logger,
		now:      utcNow,
	}
}

// CreateItem lists a new item for ownerID, optionally answering an item request.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}
	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check item request: %w", err)
		}
		if !ok {
			return nil, domain.NewNotFoundError("ItemRequest", *req.RequestID)
		}
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, req.Available, req.RequestID)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, it)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.Int64("item_id", saved.ID()), zap.Int64("owner_id", ownerID))
	s.publishItemEvent(ctx, events.ItemCreated, saved)

	result := toItemDTO(saved, nil)
	return &result, nil
}

// UpdateItem applies a partial update on behalf of the owner.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(ownerID) {
		return nil, domain.NewNotAuthorizedError(fmt.Sprintf("User with id %d is not the owner of item %d", ownerID, itemID))
	}

	if err := it.Update(req.Name, req.Description, req.Available); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("item updated", zap.Int64("item_id", itemID))
	s.publishItemEvent(ctx, events.ItemUpdated, it)

	comments, err := s.comments.FindByItemIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	result := toItemDTO(it, comments)
	return &result, nil
}

// GetItem returns an item with its comments. The owner also sees the last and next bookings.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*ItemDTO, error) {
	it, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.enrich(ctx, []*itemDomain.Item{it}, it.IsOwnedBy(userID))
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// ListOwnerItems returns the owner's items with bookings and comments, ordered by id.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]ItemDTO, error) {
	if err := requireUser(ctx, s.users, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.FindByOwnerID(ctx, ownerID, domain.NewPage(from, size))
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items, true)
}

// SearchItems finds available items whose name or description contains text.
// Blank text matches nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []ItemDTO{}, nil
	}
	items, err := s.repo.Search(ctx, text, domain.NewPage(from, size))
	if err != nil {
		return nil, err
	}
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it, nil)
	}
	return dtos, nil
}

// AddComment posts a comment by a user who has finished an approved booking of the item.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, req CreateCommentRequest) (*CommentDTO, error) {
	now := s.now()

	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	finished, err := s.bookings.ExistsFinishedApproved(ctx, itemID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check bookings: %w", err)
	}
	if !finished {
		return nil, domain.NewValidationError("You can add a comment only after the booking is completed")
	}

	c, err := itemDomain.NewComment(itemID, userID, author.Name(), req.Text, now)
	if err != nil {
		return nil, err
	}
	saved, err := s.comments.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added", zap.Int64("item_id", itemID), zap.Int64("author_id", userID))
	result := toCommentDTO(saved)
	return &result, nil
}

// enrich attaches comments to every item and, for owners, the approved bookings around now.
func (s *ItemService) enrich(ctx context.Context, items []*itemDomain.Item, withBookings bool) ([]ItemDTO, error) {
	if len(items) == 0 {
		return []ItemDTO{}, nil
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}

	comments, err := s.comments.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]*itemDomain.Comment, len(items))
	for _, c := range comments {
		commentsByItem[c.ItemID()] = append(commentsByItem[c.ItemID()], c)
	}

	bookingsByItem := map[int64][]*bookingDomain.Booking{}
	if withBookings {
		approved, err := s.bookings.FindApprovedByItemIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, bk := range approved {
			bookingsByItem[bk.ItemID()] = append(bookingsByItem[bk.ItemID()], bk)
		}
	}

	now := s.now()
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it, commentsByItem[it.ID()])
		if withBookings {
			last, next := bookingDomain.LastAndNext(bookingsByItem[it.ID()], now)
			dtos[i].LastBooking = toBookingShortDTO(last)
			dtos[i].NextBooking = toBookingShortDTO(next)
		}
	}
	return dtos, nil
}

func (s *ItemService) publishItemEvent(ctx context.Context, eventType string, it *itemDomain.Item) {
	s.events.publishEvent(ctx, events.TopicItemEvents, eventType, it.ID(), events.ItemChangedEvent{
		ItemID:     it.ID(),
		OwnerID:    it.OwnerID(),
		Available:  it.IsAvailable(),
		RequestID:  it.RequestID(),
		OccurredAt: s.now(),
	})
}
