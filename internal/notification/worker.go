package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"stayhub/internal/mailer"
)

const queueDepth = 64

// Worker consumes confirmation messages from a bounded channel with a
// fixed pool of goroutines and delivers them through the mailer.
// Delivery is at-least-once: ack only after a successful send, with a
// bounded number of in-process retries before the message is dropped
// and logged.
type Worker struct {
	mailer   mailer.Mailer
	log      *zap.Logger
	workers  int
	attempts int
	queue    chan amqp.Delivery
}

func NewWorker(m mailer.Mailer, log *zap.Logger, workers, attempts int) *Worker {
	if workers < 1 {
		workers = 1
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Worker{
		mailer:   m,
		log:      log,
		workers:  workers,
		attempts: attempts,
		queue:    make(chan amqp.Delivery, queueDepth),
	}
}

// Start feeds deliveries into the bounded queue and spins up the pool.
// It returns immediately; workers exit when ctx is cancelled or the
// delivery channel closes.
func (w *Worker) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	go func() {
		defer close(w.queue)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					w.log.Info("delivery channel closed, stopping notification worker")
					return
				}
				select {
				case <-ctx.Done():
					return
				case w.queue <- msg:
				}
			}
		}
	}()

	for i := 0; i < w.workers; i++ {
		go func() {
			for msg := range w.queue {
				w.handle(msg)
			}
		}()
	}
}

func (w *Worker) handle(msg amqp.Delivery) {
	var c BookingConfirmation
	if err := json.Unmarshal(msg.Body, &c); err != nil {
		w.log.Error("failed to unmarshal confirmation", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	subject, body := composeMail(msg.RoutingKey, c)

	var err error
	for attempt := 1; attempt <= w.attempts; attempt++ {
		if err = w.mailer.Send(c.Email, subject, body); err == nil {
			_ = msg.Ack(false)
			w.log.Info("confirmation sent",
				zap.String("routing_key", msg.RoutingKey),
				zap.String("to", c.Email))
			return
		}
		w.log.Warn("confirmation send failed",
			zap.String("to", c.Email),
			zap.Int("attempt", attempt),
			zap.Error(err))
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}

	// Out of attempts. The booking stays valid; drop the message.
	w.log.Error("giving up on confirmation",
		zap.String("to", c.Email),
		zap.Int("attempts", w.attempts),
		zap.Error(err))
	_ = msg.Nack(false, false)
}

func composeMail(routingKey string, c BookingConfirmation) (subject, body string) {
	switch routingKey {
	case KeyBookingPaid:
		subject = fmt.Sprintf("Payment received for %s", c.ListingName)
	default:
		subject = fmt.Sprintf("Booking confirmation for %s", c.ListingName)
	}
	body = fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s has been confirmed.\nCheck-in: %s\nCheck-out: %s\nTotal price: $%.2f\n\nThank you for booking with us!",
		c.GuestName, c.ListingName, c.StartDate, c.EndDate, c.TotalPrice,
	)
	return subject, body
}
