// Package request models "wanted" posts: users describe an item they would like to
// borrow and other users answer by listing one.
package request

import (
	"strings"
	"time"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ItemRequest is the aggregate root for a wanted-item post.
type ItemRequest struct {
	id          int64
	description string
	requestorID int64
	createdAt   time.Time
}

// NewItemRequest creates a request stamped with now.
func NewItemRequest(requestorID int64, description string, now time.Time) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewFieldValidationError("description", "must not be blank")
	}
	return &ItemRequest{
		description: description,
		requestorID: requestorID,
		createdAt:   now,
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data.
func Reconstruct(id, requestorID int64, description string, createdAt time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		description: description,
		requestorID: requestorID,
		createdAt:   createdAt,
	}
}

func (r *ItemRequest) ID() int64            { return r.id }
func (r *ItemRequest) Description() string  { return r.description }
func (r *ItemRequest) RequestorID() int64   { return r.requestorID }
func (r *ItemRequest) CreatedAt() time.Time { return r.createdAt }
