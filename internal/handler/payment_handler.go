package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stayhub/internal/dto"
	"stayhub/internal/service"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/payments")
	g.POST("/initiate", h.InitiatePayment)
	g.GET("/verify", h.VerifyPayment)
}

func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var req dto.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.svc.InitiatePayment(c.Request().Context(), service.InitiatePaymentInput{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Email:     req.Email,
	})
	if err != nil {
		return paymentError(err)
	}

	return c.JSON(http.StatusCreated, dto.InitiatePaymentResponse{
		TxRef:       result.Payment.TxRef,
		CheckoutURL: result.CheckoutURL,
		Status:      result.Payment.Status,
	})
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	txRef := c.QueryParam("tx_ref")
	if txRef == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tx_ref is required")
	}

	payment, err := h.svc.VerifyPayment(c.Request().Context(), txRef)
	if err != nil {
		return paymentError(err)
	}

	return c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

func paymentError(err error) error {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInitiationFailed),
		errors.Is(err, service.ErrVerificationFailed):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
