package dto

import "github.com/google/uuid"

// Dates travel as plain YYYY-MM-DD strings; handlers parse them after
// validation.
const DateLayout = "2006-01-02"

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type CreateListingRequest struct {
	HostID        uuid.UUID `json:"host_id" validate:"required"`
	Name          string    `json:"name" validate:"required,max=255"`
	Description   string    `json:"description"`
	Address       string    `json:"address" validate:"max=255"`
	City          string    `json:"city" validate:"max=100"`
	Country       string    `json:"country" validate:"max=100"`
	PricePerNight float64   `json:"price_per_night" validate:"required,gt=0"`
	MaxGuests     int       `json:"max_guests" validate:"omitempty,min=1"`
	Bedrooms      int       `json:"bedrooms" validate:"omitempty,min=1"`
}

type UpdateListingRequest struct {
	Name          string  `json:"name" validate:"omitempty,max=255"`
	Description   string  `json:"description"`
	Address       string  `json:"address" validate:"max=255"`
	City          string  `json:"city" validate:"max=100"`
	Country       string  `json:"country" validate:"max=100"`
	PricePerNight float64 `json:"price_per_night" validate:"omitempty,gt=0"`
	MaxGuests     int     `json:"max_guests" validate:"omitempty,min=1"`
	Bedrooms      int     `json:"bedrooms" validate:"omitempty,min=1"`
}

type CreateBookingRequest struct {
	GuestID    uuid.UUID `json:"guest_id" validate:"required"`
	StartDate  string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	TotalPrice float64   `json:"total_price" validate:"required,gt=0"`
}

type UpdateBookingRequest struct {
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	TotalPrice float64 `json:"total_price" validate:"omitempty,gt=0"`
}

type CreateReviewRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required"`
	Comment string    `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

type InitiatePaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	Email     string    `json:"email" validate:"required,email"`
}
