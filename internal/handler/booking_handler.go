package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stayhub/internal/dto"
	"stayhub/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	listings := e.Group("/api/v1/listings")
	listings.POST("/:id/bookings", h.CreateBooking)
	listings.GET("/:id/bookings", h.ListBookings)

	e.GET("/api/v1/bookings/:id", h.GetBooking)
	e.PUT("/api/v1/bookings/:id", h.UpdateBooking)
	e.DELETE("/api/v1/bookings/:id", h.DeleteBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, _ := time.Parse(dto.DateLayout, req.StartDate)
	end, _ := time.Parse(dto.DateLayout, req.EndDate)

	booking, err := h.svc.CreateBooking(c.Request().Context(), listingID, service.CreateBookingInput{
		GuestID:    req.GuestID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return bookingError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, _ := time.Parse(dto.DateLayout, req.StartDate)
	end, _ := time.Parse(dto.DateLayout, req.EndDate)

	booking, err := h.svc.UpdateBooking(c.Request().Context(), id, service.UpdateBookingInput{
		StartDate:  start,
		EndDate:    end,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return bookingError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), listingID)
	if err != nil {
		return bookingError(err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	if err := h.svc.DeleteBooking(c.Request().Context(), id); err != nil {
		return bookingError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func bookingError(err error) error {
	switch {
	case errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrGuestNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDatesUnavailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
