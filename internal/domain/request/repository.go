package request

import (
	"context"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ItemRequestRepository stores item requests. Listings are newest first.
type ItemRequestRepository interface {
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)
	Exists(ctx context.Context, id int64) (bool, error)
	FindByRequestorID(ctx context.Context, requestorID int64) ([]*ItemRequest, error)
	// FindOthers returns requests not created by userID.
	FindOthers(ctx context.Context, userID int64, page domain.Page) ([]*ItemRequest, error)
	Save(ctx context.Context, r *ItemRequest) (*ItemRequest, error)
}
