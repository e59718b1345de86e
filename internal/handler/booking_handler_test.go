package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/dto"
	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn func(ctx context.Context, listingID uuid.UUID, in service.CreateBookingInput) (*models.Booking, error)
	updateFn func(ctx context.Context, id uuid.UUID, in service.UpdateBookingInput) (*models.Booking, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	listFn   func(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookingService) CreateBooking(ctx context.Context, listingID uuid.UUID, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, listingID, in)
}
func (m *mockBookingService) UpdateBooking(ctx context.Context, id uuid.UUID, in service.UpdateBookingInput) (*models.Booking, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	return m.listFn(ctx, listingID)
}
func (m *mockBookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	return e
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- Tests ---

func TestCreateBooking_Success(t *testing.T) {
	listingID := uuid.New()
	guestID := uuid.New()

	svc := &mockBookingService{
		createFn: func(ctx context.Context, lid uuid.UUID, in service.CreateBookingInput) (*models.Booking, error) {
			assert.Equal(t, listingID, lid)
			assert.Equal(t, date(2025, 8, 10), in.StartDate)
			assert.Equal(t, date(2025, 8, 12), in.EndDate)
			return &models.Booking{
				ID:         uuid.New(),
				ListingID:  lid,
				GuestID:    in.GuestID,
				StartDate:  in.StartDate,
				EndDate:    in.EndDate,
				TotalPrice: in.TotalPrice,
			}, nil
		},
	}

	e := newTestEcho()
	h := NewBookingHandler(svc)

	body := `{"guest_id":"` + guestID.String() + `","start_date":"2025-08-10","end_date":"2025-08-12","total_price":240}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(listingID.String())

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-08-10", resp.StartDate)
	assert.Equal(t, "2025-08-12", resp.EndDate)
	assert.Equal(t, 240.0, resp.TotalPrice)
}

func TestCreateBooking_OverlapConflict(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, lid uuid.UUID, in service.CreateBookingInput) (*models.Booking, error) {
			return nil, service.ErrDatesUnavailable
		},
	}

	e := newTestEcho()
	h := NewBookingHandler(svc)

	body := `{"guest_id":"` + uuid.NewString() + `","start_date":"2025-08-11","end_date":"2025-08-13","total_price":100}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.CreateBooking(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateBooking_InvalidRange(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, lid uuid.UUID, in service.CreateBookingInput) (*models.Booking, error) {
			return nil, service.ErrInvalidDateRange
		},
	}

	e := newTestEcho()
	h := NewBookingHandler(svc)

	body := `{"guest_id":"` + uuid.NewString() + `","start_date":"2025-08-12","end_date":"2025-08-10","total_price":100}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.CreateBooking(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_MalformedDate(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, lid uuid.UUID, in service.CreateBookingInput) (*models.Booking, error) {
			t.Fatal("service should not be called on validation failure")
			return nil, nil
		},
	}

	e := newTestEcho()
	h := NewBookingHandler(svc)

	body := `{"guest_id":"` + uuid.NewString() + `","start_date":"10-08-2025","end_date":"2025-08-12","total_price":100}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.CreateBooking(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	e := newTestEcho()
	h := NewBookingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.GetBooking(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestListBookings_Success(t *testing.T) {
	listingID := uuid.New()
	svc := &mockBookingService{
		listFn: func(ctx context.Context, lid uuid.UUID) ([]models.Booking, error) {
			return []models.Booking{
				{ID: uuid.New(), ListingID: lid, StartDate: date(2025, 8, 10), EndDate: date(2025, 8, 12)},
				{ID: uuid.New(), ListingID: lid, StartDate: date(2025, 8, 12), EndDate: date(2025, 8, 14)},
			}, nil
		},
	}

	e := newTestEcho()
	h := NewBookingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(listingID.String())

	require.NoError(t, h.ListBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
