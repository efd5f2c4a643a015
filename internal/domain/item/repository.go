package item

import (
	"context"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ItemRepository is the item directory.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*Item, error)
	// FindByOwnerID returns the owner's items ordered by id.
	FindByOwnerID(ctx context.Context, ownerID int64, page domain.Page) ([]*Item, error)
	// Search matches text case-insensitively in name or description of available items.
	Search(ctx context.Context, text string, page domain.Page) ([]*Item, error)
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Save(ctx context.Context, it *Item) (*Item, error)
	Update(ctx context.Context, it *Item) error
}

// CommentRepository stores item comments.
type CommentRepository interface {
	Save(ctx context.Context, c *Comment) (*Comment, error)
	// FindByItemIDs returns comments of the given items, oldest first.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}
