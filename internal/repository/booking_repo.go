package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stayhub/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error)
	CountOverlapping(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Listing").First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountOverlapping counts bookings on the listing whose half-open
// [start_date, end_date) range intersects [start, end). Bookings that
// merely touch at a boundary do not intersect. excludeID skips the
// booking being updated; pass uuid.Nil on create.
func (r *bookingRepository) CountOverlapping(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (int64, error) {
	var count int64
	q := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("listing_id = ? AND start_date < ? AND end_date > ?", listingID, end, start)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *bookingRepository) Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id).Error
}
