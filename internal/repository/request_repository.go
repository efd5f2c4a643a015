package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	requestDomain "github.com/shareit-team/shareit-server/internal/domain/request"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ItemRequestModel is the GORM model for the item_requests table.
type ItemRequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"size:512;not null"`
	RequestorID int64     `gorm:"not null;index"`
	Requestor   UserModel `gorm:"foreignKey:RequestorID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemRequestModel) TableName() string { return "item_requests" }

// GormItemRequestRepository is the GORM-based implementation of ItemRequestRepository.
type GormItemRequestRepository struct {
	db *gorm.DB
}

// NewGormItemRequestRepository creates a new GormItemRequestRepository.
func NewGormItemRequestRepository(db *gorm.DB) *GormItemRequestRepository {
	return &GormItemRequestRepository{db: db}
}

func (r *GormItemRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.ItemRequest, error) {
	var model ItemRequestModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("ItemRequest", id)
		}
		return nil, fmt.Errorf("failed to find item request by ID: %w", err)
	}
	return toRequestDomain(&model), nil
}

func (r *GormItemRequestRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&ItemRequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check item request: %w", err)
	}
	return count > 0, nil
}

// FindByRequestorID returns the user's own requests, newest first.
func (r *GormItemRequestRepository) FindByRequestorID(ctx context.Context, requestorID int64) ([]*requestDomain.ItemRequest, error) {
	var models []ItemRequestModel
	err := conn(ctx, r.db).
		Where("requestor_id = ?", requestorID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find item requests: %w", err)
	}
	return toRequestDomains(models), nil
}

// FindOthers returns a page of requests made by anyone but userID, newest first.
func (r *GormItemRequestRepository) FindOthers(ctx context.Context, userID int64, page domain.Page) ([]*requestDomain.ItemRequest, error) {
	var models []ItemRequestModel
	err := conn(ctx, r.db).
		Where("requestor_id <> ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find item requests: %w", err)
	}
	return toRequestDomains(models), nil
}

func (r *GormItemRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) (*requestDomain.ItemRequest, error) {
	model := &ItemRequestModel{
		Description: req.Description(),
		RequestorID: req.RequestorID(),
		CreatedAt:   req.CreatedAt(),
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save item request: %w", err)
	}
	return toRequestDomain(model), nil
}

func toRequestDomain(m *ItemRequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.RequestorID, m.Description, m.CreatedAt)
}

func toRequestDomains(models []ItemRequestModel) []*requestDomain.ItemRequest {
	out := make([]*requestDomain.ItemRequest, len(models))
	for i := range models {
		out[i] = toRequestDomain(&models[i])
	}
	return out
}
