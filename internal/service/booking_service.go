package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stayhub/internal/models"
	"stayhub/internal/notification"
	"stayhub/internal/repository"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrGuestNotFound    = errors.New("guest user not found")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrDatesUnavailable = errors.New("listing is already booked for the selected dates")
)

type CreateBookingInput struct {
	GuestID    uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice float64
}

type UpdateBookingInput struct {
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice float64
}

type BookingService interface {
	CreateBooking(ctx context.Context, listingID uuid.UUID, in CreateBookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, in UpdateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	dispatcher  notification.Dispatcher
	log         *zap.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// dateRangeValid enforces a strictly positive half-open [start, end)
// range. Equal dates are rejected; a range ending where another begins
// is not an overlap and is handled by the repository query.
func dateRangeValid(start, end time.Time) bool {
	return end.After(start)
}

func (s *bookingService) CreateBooking(ctx context.Context, listingID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	if !dateRangeValid(in.StartDate, in.EndDate) {
		return nil, ErrInvalidDateRange
	}

	guest, err := s.userRepo.FindByID(ctx, in.GuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	var booking *models.Booking
	var listing *models.Listing

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the listing row: concurrent bookings for the same
		// listing serialize here, so the overlap check below sees
		// every committed competitor.
		listing, err = s.listingRepo.FindByIDForUpdate(ctx, tx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}

		overlapping, err := s.bookingRepo.CountOverlapping(ctx, tx, listingID, in.StartDate, in.EndDate, uuid.Nil)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrDatesUnavailable
		}

		booking = &models.Booking{
			ListingID:  listingID,
			GuestID:    in.GuestID,
			StartDate:  in.StartDate,
			EndDate:    in.EndDate,
			TotalPrice: in.TotalPrice,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	// Confirmation mail is fire-and-forget: a publish failure never
	// rolls back the committed booking.
	if err := s.dispatcher.DispatchBookingConfirmed(ctx, notification.BookingConfirmation{
		Email:       guest.Email,
		GuestName:   guest.Username,
		ListingName: listing.Name,
		StartDate:   booking.StartDate.Format("2006-01-02"),
		EndDate:     booking.EndDate.Format("2006-01-02"),
		TotalPrice:  booking.TotalPrice,
	}); err != nil {
		s.log.Error("failed to enqueue booking confirmation",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
	}

	return booking, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id uuid.UUID, in UpdateBookingInput) (*models.Booking, error) {
	if !dateRangeValid(in.StartDate, in.EndDate) {
		return nil, ErrInvalidDateRange
	}

	var booking *models.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if _, err = s.listingRepo.FindByIDForUpdate(ctx, tx, booking.ListingID); err != nil {
			return err
		}

		// Exclude the booking itself so an unchanged range stays valid.
		overlapping, err := s.bookingRepo.CountOverlapping(ctx, tx, booking.ListingID, in.StartDate, in.EndDate, booking.ID)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrDatesUnavailable
		}

		booking.StartDate = in.StartDate
		booking.EndDate = in.EndDate
		if in.TotalPrice > 0 {
			booking.TotalPrice = in.TotalPrice
		}
		return s.bookingRepo.Update(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return s.bookingRepo.FindByListingID(ctx, listingID)
}

func (s *bookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	if _, err := s.bookingRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	return s.bookingRepo.Delete(ctx, id)
}
