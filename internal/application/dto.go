package application

import (
	bookingDomain "github.com/shareit-team/shareit-server/internal/domain/booking"
	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-team/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
)

// --- Users ---

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest holds a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}

// --- Bookings ---

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ItemID int64         `json:"itemId" binding:"required"`
	Start  LocalDateTime `json:"start" binding:"required"`
	End    LocalDateTime `json:"end" binding:"required"`
}

// ItemSummaryDTO is the item nested in a booking.
type ItemSummaryDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     int64          `json:"id"`
	Start  LocalDateTime  `json:"start"`
	End    LocalDateTime  `json:"end"`
	Status string         `json:"status"`
	Booker UserDTO        `json:"booker"`
	Item   ItemSummaryDTO `json:"item"`
}

// BookingShortDTO is the booking shown on an item to its owner.
type BookingShortDTO struct {
	ID       int64         `json:"id"`
	BookerID int64         `json:"bookerId"`
	Start    LocalDateTime `json:"start"`
	End      LocalDateTime `json:"end"`
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	it := bk.Item()
	return BookingDTO{
		ID:     bk.ID(),
		Start:  NewLocalDateTime(bk.Start()),
		End:    NewLocalDateTime(bk.End()),
		Status: bk.Status().String(),
		Booker: toUserDTO(bk.Booker()),
		Item: ItemSummaryDTO{
			ID:          it.ID(),
			Name:        it.Name(),
			Description: it.Description(),
			Available:   it.IsAvailable(),
			RequestID:   it.RequestID(),
		},
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{ID: bk.ID(), BookerID: bk.BookerID(), Start: NewLocalDateTime(bk.Start()), End: NewLocalDateTime(bk.End())}
}

// --- Items ---

// CreateItemRequest holds the data needed to list an item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required,max=200"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest holds a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest holds a new comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         int64         `json:"id"`
	Text       string        `json:"text"`
	AuthorName string        `json:"authorName"`
	Created    LocalDateTime `json:"created"`
}

// ItemDTO is the response representation of an item. Bookings are only set for the owner.
type ItemDTO struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	RequestID   *int64           `json:"requestId,omitempty"`
	LastBooking *BookingShortDTO `json:"lastBooking"`
	NextBooking *BookingShortDTO `json:"nextBooking"`
	Comments    []CommentDTO     `json:"comments"`
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{ID: c.ID(), Text: c.Text(), AuthorName: c.AuthorName(), Created: NewLocalDateTime(c.CreatedAt())}
}

func toItemDTO(it *itemDomain.Item, comments []*itemDomain.Comment) ItemDTO {
	dto := ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.IsAvailable(),
		RequestID:   it.RequestID(),
		Comments:    make([]CommentDTO, 0, len(comments)),
	}
	for _, c := range comments {
		dto.Comments = append(dto.Comments, toCommentDTO(c))
	}
	return dto
}

// --- Item requests ---

// CreateItemRequestRequest holds a new wanted-item post.
type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// AnswerDTO is an item listed in answer to a request.
type AnswerDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   int64  `json:"requestId"`
	OwnerID     int64  `json:"ownerId"`
}

// ItemRequestDTO is the response representation of an item request.
type ItemRequestDTO struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     LocalDateTime `json:"created"`
	Items       []AnswerDTO   `json:"items"`
}

func toItemRequestDTO(r *requestDomain.ItemRequest, answers []*itemDomain.Item) ItemRequestDTO {
	dto := ItemRequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		Created:     NewLocalDateTime(r.CreatedAt()),
		Items:       make([]AnswerDTO, 0, len(answers)),
	}
	for _, it := range answers {
		dto.Items = append(dto.Items, AnswerDTO{
			ID:          it.ID(),
			Name:        it.Name(),
			Description: it.Description(),
			Available:   it.IsAvailable(),
			RequestID:   r.ID(),
			OwnerID:     it.OwnerID(),
		})
	}
	return dto
}
