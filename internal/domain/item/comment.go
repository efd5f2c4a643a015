package item

import (
	"strings"
	"time"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// Comment is a review left on an item by a user who has finished a booking of it.
// Comments are append-only.
type Comment struct {
	id         int64
	itemID     int64
	authorID   int64
	authorName string
	text       string
	createdAt  time.Time
}

// NewComment creates a comment stamped with now.
func NewComment(itemID, authorID int64, authorName, text string, now time.Time) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewFieldValidationError("text", "must not be blank")
	}
	return &Comment{
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		text:       text,
		createdAt:  now,
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence.
func ReconstructComment(id, itemID, authorID int64, authorName, text string, createdAt time.Time) *Comment {
	return &Comment{
		id:         id,
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		text:       text,
		createdAt:  createdAt,
	}
}

// Getters.
func (c *Comment) ID() int64            { return c.id }
func (c *Comment) ItemID() int64        { return c.itemID }
func (c *Comment) AuthorID() int64      { return c.authorID }
func (c *Comment) AuthorName() string   { return c.authorName }
func (c *Comment) Text() string         { return c.text }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
