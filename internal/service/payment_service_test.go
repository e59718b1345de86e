package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stayhub/internal/models"
	"stayhub/internal/notification"
	"stayhub/pkg/chapa"
)

// --- Mock PaymentRepository ---

type mockPaymentRepo struct {
	createFn       func(ctx context.Context, payment *models.Payment) error
	findByTxRefFn  func(ctx context.Context, txRef string) (*models.Payment, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return m.createFn(ctx, payment)
}
func (m *mockPaymentRepo) FindByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	return m.findByTxRefFn(ctx, txRef)
}
func (m *mockPaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}
func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	return m.updateStatusFn(ctx, id, status)
}

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return nil
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockBookingRepo) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) CountOverlapping(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return nil
}
func (m *mockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (m *mockBookingRepo) GetDB() *gorm.DB                                { return nil }

// --- Mock UserRepository ---

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindAll(ctx context.Context) ([]models.User, error)  { return nil, nil }
func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

// --- Mock PaymentProvider ---

type mockProvider struct {
	initializeFn func(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error)
	verifyFn     func(ctx context.Context, txRef string) (*chapa.VerifyResponse, error)
}

func (m *mockProvider) Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error) {
	return m.initializeFn(ctx, req)
}
func (m *mockProvider) Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
	return m.verifyFn(ctx, txRef)
}

// --- Mock Dispatcher ---

type mockDispatcher struct {
	confirmed int
	paid      int
}

func (m *mockDispatcher) DispatchBookingConfirmed(ctx context.Context, c notification.BookingConfirmation) error {
	m.confirmed++
	return nil
}
func (m *mockDispatcher) DispatchBookingPaid(ctx context.Context, c notification.BookingConfirmation) error {
	m.paid++
	return nil
}

// --- Fixtures ---

func verifyResponse(status string) *chapa.VerifyResponse {
	resp := &chapa.VerifyResponse{Status: "success"}
	resp.Data.Status = status
	return resp
}

func initializeResponse(url string) *chapa.InitializeResponse {
	resp := &chapa.InitializeResponse{Status: "success"}
	resp.Data.CheckoutURL = url
	return resp
}

func bookingFixture() *models.Booking {
	return &models.Booking{
		ID:         uuid.New(),
		ListingID:  uuid.New(),
		GuestID:    uuid.New(),
		StartDate:  time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
		TotalPrice: 240,
		Listing:    &models.Listing{Name: "Cozy Stay #1"},
	}
}

func paymentServiceHarness(booking *models.Booking, payments *mockPaymentRepo, provider *mockProvider, dispatcher *mockDispatcher) PaymentService {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
			if booking == nil || id != booking.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return booking, nil
		},
	}
	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Username: "traveler01", Email: "traveler01@example.com"}, nil
		},
	}
	return NewPaymentService(payments, bookings, users, provider, dispatcher, zap.NewNop())
}

// --- Tests ---

func TestInitiatePayment_PersistsPendingRow(t *testing.T) {
	booking := bookingFixture()
	var stored *models.Payment

	payments := &mockPaymentRepo{
		createFn: func(ctx context.Context, payment *models.Payment) error {
			stored = payment
			return nil
		},
	}
	provider := &mockProvider{
		initializeFn: func(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error) {
			assert.Equal(t, "240.00", req.Amount)
			assert.Equal(t, "guest@example.com", req.Email)
			assert.NotEmpty(t, req.TxRef)
			return initializeResponse("https://checkout.example.com/pay/abc"), nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := paymentServiceHarness(booking, payments, provider, dispatcher)

	result, err := svc.InitiatePayment(t.Context(), InitiatePaymentInput{
		BookingID: booking.ID,
		Amount:    240,
		Email:     "guest@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/pay/abc", result.CheckoutURL)
	require.NotNil(t, stored)
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.Equal(t, booking.ID, stored.BookingID)
	assert.Equal(t, 0, dispatcher.paid, "initiation must not notify")
}

func TestInitiatePayment_ProviderFailurePersistsNothing(t *testing.T) {
	booking := bookingFixture()

	payments := &mockPaymentRepo{
		createFn: func(ctx context.Context, payment *models.Payment) error {
			t.Fatal("no payment row may be created when the provider fails")
			return nil
		},
	}
	provider := &mockProvider{
		initializeFn: func(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error) {
			return nil, errors.New("provider unreachable")
		},
	}
	svc := paymentServiceHarness(booking, payments, provider, &mockDispatcher{})

	_, err := svc.InitiatePayment(t.Context(), InitiatePaymentInput{
		BookingID: booking.ID,
		Amount:    100,
		Email:     "guest@example.com",
	})
	assert.ErrorIs(t, err, ErrInitiationFailed)
}

func TestInitiatePayment_BookingMissing(t *testing.T) {
	svc := paymentServiceHarness(nil, &mockPaymentRepo{}, &mockProvider{}, &mockDispatcher{})

	_, err := svc.InitiatePayment(t.Context(), InitiatePaymentInput{
		BookingID: uuid.New(),
		Amount:    100,
		Email:     "guest@example.com",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestVerifyPayment_CompletesAndNotifiesOnce(t *testing.T) {
	booking := bookingFixture()
	payment := &models.Payment{
		ID:        uuid.New(),
		BookingID: booking.ID,
		Amount:    240,
		TxRef:     "stayhub-test-ref",
		Status:    models.PaymentPending,
	}

	payments := &mockPaymentRepo{
		findByTxRefFn: func(ctx context.Context, txRef string) (*models.Payment, error) {
			return payment, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
			payment.Status = status
			return nil
		},
	}
	provider := &mockProvider{
		verifyFn: func(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
			return verifyResponse("success"), nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := paymentServiceHarness(booking, payments, provider, dispatcher)

	got, err := svc.VerifyPayment(t.Context(), "stayhub-test-ref")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, got.Status)
	assert.Equal(t, 1, dispatcher.paid, "completion must enqueue exactly one notification")

	// Verifying again must not re-notify.
	_, err = svc.VerifyPayment(t.Context(), "stayhub-test-ref")
	require.NoError(t, err)
	assert.Equal(t, 1, dispatcher.paid)
}

func TestVerifyPayment_FailedStatus(t *testing.T) {
	booking := bookingFixture()
	payment := &models.Payment{
		ID:        uuid.New(),
		BookingID: booking.ID,
		TxRef:     "stayhub-failed-ref",
		Status:    models.PaymentPending,
	}

	payments := &mockPaymentRepo{
		findByTxRefFn: func(ctx context.Context, txRef string) (*models.Payment, error) {
			return payment, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
			payment.Status = status
			return nil
		},
	}
	provider := &mockProvider{
		verifyFn: func(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
			return verifyResponse("failed"), nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := paymentServiceHarness(booking, payments, provider, dispatcher)

	got, err := svc.VerifyPayment(t.Context(), "stayhub-failed-ref")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, got.Status)
	assert.Equal(t, 0, dispatcher.paid, "failed payment must not notify")
}

func TestVerifyPayment_NotFound(t *testing.T) {
	payments := &mockPaymentRepo{
		findByTxRefFn: func(ctx context.Context, txRef string) (*models.Payment, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := paymentServiceHarness(bookingFixture(), payments, &mockProvider{}, &mockDispatcher{})

	_, err := svc.VerifyPayment(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestVerifyPayment_ProviderError(t *testing.T) {
	payment := &models.Payment{ID: uuid.New(), TxRef: "stayhub-err-ref", Status: models.PaymentPending}

	payments := &mockPaymentRepo{
		findByTxRefFn: func(ctx context.Context, txRef string) (*models.Payment, error) {
			return payment, nil
		},
	}
	provider := &mockProvider{
		verifyFn: func(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
			return nil, errors.New("provider unreachable")
		},
	}
	svc := paymentServiceHarness(bookingFixture(), payments, provider, &mockDispatcher{})

	_, err := svc.VerifyPayment(t.Context(), "stayhub-err-ref")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}
