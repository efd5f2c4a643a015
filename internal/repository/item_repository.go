package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	Name        string            `gorm:"size:255;not null"`
	Description string            `gorm:"size:200;not null"`
	Available   bool              `gorm:"column:is_available;not null"`
	OwnerID     int64             `gorm:"not null;index"`
	Owner       UserModel         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	RequestID   *int64            `gorm:"index"`
	Request     *ItemRequestModel `gorm:"foreignKey:RequestID;constraint:OnDelete:SET NULL"`
	Version     int64             `gorm:"not null;default:1"`
	CreatedAt   time.Time         `gorm:"not null"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string { return "items" }

// GormItemRepository is the GORM-based implementation of ItemRepository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by id.
func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", id)
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toItemDomain(&model), nil
}

// FindByOwnerID returns a page of the owner's items ordered by id.
func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID int64, page domain.Page) ([]*itemDomain.Item, error) {
	var models []ItemModel
	err := conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items by owner: %w", err)
	}
	return toItemDomains(models), nil
}

// Search returns available items whose name or description contains text, ignoring case.
func (r *GormItemRepository) Search(ctx context.Context, text string, page domain.Page) ([]*itemDomain.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"

	var models []ItemModel
	err := conn(ctx, r.db).
		Where("is_available = ?", true).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toItemDomains(models), nil
}

// FindByRequestIDs returns the items answering any of the given requests.
func (r *GormItemRepository) FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	if len(requestIDs) == 0 {
		return []*itemDomain.Item{}, nil
	}
	var models []ItemModel
	err := conn(ctx, r.db).
		Where("request_id IN ?", requestIDs).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items by request: %w", err)
	}
	return toItemDomains(models), nil
}

// Save inserts a new item.
func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) (*itemDomain.Item, error) {
	model := toItemModel(it)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	return toItemDomain(model), nil
}

// Update persists item changes with an optimistic version check.
func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	previousVersion := it.Version() - 1
	result := conn(ctx, r.db).
		Model(&ItemModel{}).
		Where("id = ? AND version = ?", it.ID(), previousVersion).
		Updates(map[string]interface{}{
			"name":         it.Name(),
			"description":  it.Description(),
			"is_available": it.IsAvailable(),
			"version":      it.Version(),
			"updated_at":   it.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("item was modified by another transaction")
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.IsAvailable(),
		OwnerID:     it.OwnerID(),
		RequestID:   it.RequestID(),
		Version:     it.Version(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func toItemDomain(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.Description,
		m.Available,
		m.RequestID,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toItemDomains(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toItemDomain(&models[i])
	}
	return items
}
