package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stayhub/internal/dto"
	"stayhub/internal/models"
	"stayhub/internal/service"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

func (h *ListingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/listings")
	g.POST("", h.CreateListing)
	g.GET("", h.ListListings)
	g.GET("/:id", h.GetListing)
	g.PUT("/:id", h.UpdateListing)
	g.DELETE("/:id", h.DeleteListing)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	listing, err := h.svc.CreateListing(c.Request().Context(), &models.Listing{
		HostID:        req.HostID,
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		Bedrooms:      req.Bedrooms,
	})
	if err != nil {
		return listingError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	var req dto.UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	listing, err := h.svc.UpdateListing(c.Request().Context(), id, func(l *models.Listing) {
		if req.Name != "" {
			l.Name = req.Name
		}
		if req.Description != "" {
			l.Description = req.Description
		}
		if req.Address != "" {
			l.Address = req.Address
		}
		if req.City != "" {
			l.City = req.City
		}
		if req.Country != "" {
			l.Country = req.Country
		}
		if req.PricePerNight > 0 {
			l.PricePerNight = req.PricePerNight
		}
		if req.MaxGuests > 0 {
			l.MaxGuests = req.MaxGuests
		}
		if req.Bedrooms > 0 {
			l.Bedrooms = req.Bedrooms
		}
	})
	if err != nil {
		return listingError(err)
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.svc.GetListing(c.Request().Context(), id)
	if err != nil {
		return listingError(err)
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	listings, err := h.svc.ListListings(c.Request().Context(), c.QueryParam("city"))
	if err != nil {
		return listingError(err)
	}

	resp := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		resp[i] = dto.ToListingResponse(&l)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	if err := h.svc.DeleteListing(c.Request().Context(), id); err != nil {
		return listingError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func listingError(err error) error {
	switch {
	case errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
