package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stayhub/internal/models"
	"stayhub/internal/repository"
)

type ListingService interface {
	CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, apply func(*models.Listing)) (*models.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListListings(ctx context.Context, city string) ([]models.Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID) error
}

type listingService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

func NewListingService(listingRepo repository.ListingRepository, userRepo repository.UserRepository) ListingService {
	return &listingService{listingRepo: listingRepo, userRepo: userRepo}
}

func (s *listingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if _, err := s.userRepo.FindByID(ctx, listing.HostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if listing.MaxGuests == 0 {
		listing.MaxGuests = 1
	}
	if listing.Bedrooms == 0 {
		listing.Bedrooms = 1
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) UpdateListing(ctx context.Context, id uuid.UUID, apply func(*models.Listing)) (*models.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	apply(listing)
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) ListListings(ctx context.Context, city string) ([]models.Listing, error) {
	return s.listingRepo.FindAll(ctx, city)
}

// DeleteListing removes the listing; bookings and reviews cascade at
// the storage layer.
func (s *listingService) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if _, err := s.listingRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	return s.listingRepo.Delete(ctx, id)
}
