package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Text      string    `gorm:"size:1000;not null"`
	ItemID    int64     `gorm:"not null;index"`
	Item      ItemModel `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	AuthorID  int64     `gorm:"not null"`
	Author    UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string { return "comments" }

// GormCommentRepository is the GORM-based implementation of CommentRepository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save inserts a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	model := &CommentModel{
		Text:      c.Text(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		CreatedAt: c.CreatedAt(),
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return itemDomain.ReconstructComment(model.ID, model.ItemID, model.AuthorID, c.AuthorName(), model.Text, model.CreatedAt), nil
}

// FindByItemIDs returns comments of the given items with their author names, oldest first.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*itemDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return []*itemDomain.Comment{}, nil
	}
	var models []CommentModel
	err := conn(ctx, r.db).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	comments := make([]*itemDomain.Comment, len(models))
	for i, m := range models {
		comments[i] = itemDomain.ReconstructComment(m.ID, m.ItemID, m.AuthorID, m.Author.Name, m.Text, m.CreatedAt)
	}
	return comments, nil
}
