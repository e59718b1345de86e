package notification

import (
	"context"

	"stayhub/pkg/rabbitmq"
)

// Routing keys on the notifications exchange. The worker queue binds
// to booking.*.
const (
	KeyBookingConfirmed = "booking.confirmed"
	KeyBookingPaid      = "booking.paid"
)

// BookingConfirmation carries everything the mail template needs so
// the worker never reads the database.
type BookingConfirmation struct {
	Email       string  `json:"email"`
	GuestName   string  `json:"guest_name"`
	ListingName string  `json:"listing_name"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalPrice  float64 `json:"total_price"`
}

// Dispatcher enqueues confirmation messages. Callers treat failures as
// non-fatal: the booking or payment they follow is already committed.
type Dispatcher interface {
	DispatchBookingConfirmed(ctx context.Context, c BookingConfirmation) error
	DispatchBookingPaid(ctx context.Context, c BookingConfirmation) error
}

type queueDispatcher struct {
	publisher *rabbitmq.Publisher
}

func NewQueueDispatcher(publisher *rabbitmq.Publisher) Dispatcher {
	return &queueDispatcher{publisher: publisher}
}

func (d *queueDispatcher) DispatchBookingConfirmed(ctx context.Context, c BookingConfirmation) error {
	return d.publisher.Publish(ctx, KeyBookingConfirmed, c)
}

func (d *queueDispatcher) DispatchBookingPaid(ctx context.Context, c BookingConfirmation) error {
	return d.publisher.Publish(ctx, KeyBookingPaid, c)
}
