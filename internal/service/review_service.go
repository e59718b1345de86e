package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stayhub/internal/models"
	"stayhub/internal/repository"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview  = errors.New("user has already reviewed this listing")
)

type CreateReviewInput struct {
	UserID  uuid.UUID
	Rating  int
	Comment string
}

type UpdateReviewInput struct {
	Rating  int
	Comment string
}

type ReviewService interface {
	CreateReview(ctx context.Context, listingID uuid.UUID, in CreateReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, in UpdateReviewInput) (*models.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, listingRepo: listingRepo}
}

func ratingValid(rating int) bool {
	return rating >= 1 && rating <= 5
}

func (s *reviewService) CreateReview(ctx context.Context, listingID uuid.UUID, in CreateReviewInput) (*models.Review, error) {
	if !ratingValid(in.Rating) {
		return nil, ErrRatingOutOfRange
	}

	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	_, err := s.reviewRepo.FindByListingAndUser(ctx, listingID, in.UserID)
	if err == nil {
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		ListingID: listingID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// The unique index on (listing_id, user_id) closes the window
		// between the check above and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, id uuid.UUID, in UpdateReviewInput) (*models.Review, error) {
	if !ratingValid(in.Rating) {
		return nil, ErrRatingOutOfRange
	}

	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	// Re-check uniqueness excluding the review being updated.
	existing, err := s.reviewRepo.FindByListingAndUser(ctx, review.ListingID, review.UserID)
	if err == nil && existing.ID != review.ID {
		return nil, ErrDuplicateReview
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review.Rating = in.Rating
	review.Comment = in.Comment
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByListingID(ctx, listingID)
}

func (s *reviewService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	if _, err := s.reviewRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}
