package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/shareit-team/shareit-server/internal/domain/booking"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"column:start_date;not null;index:idx_bookings_start_date,sort:desc"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	ItemID    int64     `gorm:"not null;index"`
	Item      ItemModel `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	BookerID  int64     `gorm:"not null;index"`
	Booker    UserModel `gorm:"foreignKey:BookerID;constraint:OnDelete:CASCADE"`
	Status    string    `gorm:"not null;size:20"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) withRelations(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Preload("Item").Preload("Booker")
}

// FindByID retrieves a booking with its item and booker.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return r.findByID(ctx, r.withRelations(ctx), id)
}

// FindByIDForUpdate retrieves a booking and takes a row lock (SELECT ... FOR UPDATE).
// SQLite has no row locks; there the single connection serializes writers instead.
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return r.findByID(ctx, r.withRelations(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormBookingRepository) findByID(ctx context.Context, q *gorm.DB, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := q.Where("bookings.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// List translates q into SQL and returns one page, newest start first.
func (r *GormBookingRepository) List(ctx context.Context, q bookingDomain.Query, page domain.Page) ([]*bookingDomain.Booking, error) {
	tx := r.withRelations(ctx).Select("bookings.*")

	switch q.Role {
	case bookingDomain.RoleOwner:
		tx = tx.Joins("JOIN items ON items.id = bookings.item_id").
			Where("items.owner_id = ?", q.ActorID)
	default:
		tx = tx.Where("bookings.booker_id = ?", q.ActorID)
	}

	tx = applyState(tx, q.State, q.Now)

	var models []BookingModel
	err := tx.
		Order("bookings.start_date DESC, bookings.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

func applyState(tx *gorm.DB, state bookingDomain.State, now time.Time) *gorm.DB {
	switch state {
	case bookingDomain.StatePast:
		return tx.Where("bookings.end_date < ?", now)
	case bookingDomain.StateFuture:
		return tx.Where("bookings.start_date > ?", now)
	case bookingDomain.StateCurrent:
		return tx.Where("bookings.start_date < ? AND bookings.end_date > ?", now, now)
	case bookingDomain.StateWaiting:
		return tx.Where("bookings.status = ?", bookingDomain.StatusWaiting.String())
	case bookingDomain.StateRejected:
		return tx.Where("bookings.status = ?", bookingDomain.StatusRejected.String())
	}
	return tx
}

// FindApprovedByItemIDs returns the approved bookings of the given items.
func (r *GormBookingRepository) FindApprovedByItemIDs(ctx context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return []*bookingDomain.Booking{}, nil
	}
	var models []BookingModel
	err := r.withRelations(ctx).
		Where("item_id IN ? AND status = ?", itemIDs, bookingDomain.StatusApproved.String()).
		Order("start_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find approved bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ExistsFinishedApproved reports whether bookerID has an approved booking of itemID that ended before now.
func (r *GormBookingRepository) ExistsFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("item_id = ? AND booker_id = ? AND status = ? AND end_date < ?",
			itemID, bookerID, bookingDomain.StatusApproved.String(), now).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	model := toBookingModel(b)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	return bookingDomain.ReconstructBooking(
		model.ID,
		b.Start(), b.End(),
		b.Item(), b.Booker(),
		b.Status(),
		model.Version,
		model.CreatedAt, model.UpdatedAt,
	), nil
}

// Update persists the decision with optimistic locking on the version.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	previousVersion := b.Version() - 1

	result := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", b.ID(), previousVersion).
		Updates(map[string]interface{}{
			"status":     b.Status().String(),
			"version":    b.Version(),
			"updated_at": b.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		StartDate: b.Start(),
		EndDate:   b.End(),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		Status:    b.Status().String(),
		Version:   b.Version(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", m.ID, err)
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.StartDate.UTC(), m.EndDate.UTC(),
		toItemDomain(&m.Item),
		toUserDomain(&m.Booker),
		status,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, 0, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
