package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stayhub/internal/models"
	"stayhub/internal/notification"
	"stayhub/internal/repository"
	"stayhub/pkg/chapa"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInitiationFailed   = errors.New("payment initiation failed")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// PaymentProvider is the slice of the chapa client the service needs;
// tests substitute a fake.
type PaymentProvider interface {
	Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error)
}

type InitiatePaymentInput struct {
	BookingID uuid.UUID
	Amount    float64
	Email     string
}

type InitiatePaymentResult struct {
	Payment     *models.Payment
	CheckoutURL string
}

type PaymentService interface {
	InitiatePayment(ctx context.Context, in InitiatePaymentInput) (*InitiatePaymentResult, error)
	VerifyPayment(ctx context.Context, txRef string) (*models.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	provider    PaymentProvider
	dispatcher  notification.Dispatcher
	log         *zap.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	provider PaymentProvider,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		provider:    provider,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// InitiatePayment calls the provider first and persists only on
// success, so a failed initiation leaves no Payment row behind.
func (s *paymentService) InitiatePayment(ctx context.Context, in InitiatePaymentInput) (*InitiatePaymentResult, error) {
	if _, err := s.bookingRepo.FindByID(ctx, in.BookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	txRef := "stayhub-" + uuid.NewString()

	resp, err := s.provider.Initialize(ctx, chapa.InitializeRequest{
		Amount:   fmt.Sprintf("%.2f", in.Amount),
		Currency: "ETB",
		Email:    in.Email,
		TxRef:    txRef,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitiationFailed, err)
	}

	payment := &models.Payment{
		BookingID: in.BookingID,
		Amount:    in.Amount,
		TxRef:     txRef,
		Status:    models.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &InitiatePaymentResult{
		Payment:     payment,
		CheckoutURL: resp.Data.CheckoutURL,
	}, nil
}

// VerifyPayment reconciles the stored Payment with the provider's view
// and sends the paid-confirmation exactly once, on the transition into
// completed.
func (s *paymentService) VerifyPayment(ctx context.Context, txRef string) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	resp, err := s.provider.Verify(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	status := models.PaymentFailed
	switch resp.Data.Status {
	case "success":
		status = models.PaymentCompleted
	case "pending":
		status = models.PaymentPending
	}

	wasCompleted := payment.Status == models.PaymentCompleted

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, status); err != nil {
		return nil, err
	}
	payment.Status = status

	if status == models.PaymentCompleted && !wasCompleted {
		s.notifyPaid(ctx, payment)
	}

	return payment, nil
}

func (s *paymentService) notifyPaid(ctx context.Context, payment *models.Payment) {
	booking, err := s.bookingRepo.FindByID(ctx, payment.BookingID)
	if err != nil {
		s.log.Error("cannot load booking for paid notification",
			zap.String("tx_ref", payment.TxRef), zap.Error(err))
		return
	}
	guest, err := s.userRepo.FindByID(ctx, booking.GuestID)
	if err != nil {
		s.log.Error("cannot load guest for paid notification",
			zap.String("tx_ref", payment.TxRef), zap.Error(err))
		return
	}

	listingName := ""
	if booking.Listing != nil {
		listingName = booking.Listing.Name
	}

	if err := s.dispatcher.DispatchBookingPaid(ctx, notification.BookingConfirmation{
		Email:       guest.Email,
		GuestName:   guest.Username,
		ListingName: listingName,
		StartDate:   booking.StartDate.Format("2006-01-02"),
		EndDate:     booking.EndDate.Format("2006-01-02"),
		TotalPrice:  booking.TotalPrice,
	}); err != nil {
		s.log.Error("failed to enqueue paid notification",
			zap.String("tx_ref", payment.TxRef), zap.Error(err))
	}
}
