package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shalom-hotel/middleware"
	"shalom-hotel/services"
	"shalom-hotel/utils"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// non-admins always book for themselves
	if !middleware.IsAdmin(c) {
		req.UserID = middleware.UserIDFromContext(c)
	} else if req.UserID == 0 {
		req.UserID = middleware.UserIDFromContext(c)
	}

	booking, err := ctrl.BookingSvc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	booking, err := ctrl.BookingSvc.GetBookingByConfirmationCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !middleware.IsAdmin(c) && booking.UserID != middleware.UserIDFromContext(c) {
		utils.JSONError(c, http.StatusForbidden, "access denied")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) GetMyBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.GetUserBookings(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GetBookings lists every booking, optionally filtered by ?status= or ?q=.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		bookings []*services.BookingDTO
		err      error
	)
	switch {
	case c.Query("status") != "":
		bookings, err = ctrl.BookingSvc.GetBookingsByStatus(ctx, c.Query("status"))
	case c.Query("q") != "":
		bookings, err = ctrl.BookingSvc.SearchBookings(ctx, c.Query("q"))
	default:
		bookings, err = ctrl.BookingSvc.GetAllBookings(ctx)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

func (ctrl *BookingController) ConfirmBooking(c *gin.Context) {
	booking, err := ctrl.BookingSvc.ConfirmBooking(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	code := c.Param("code")

	// guests may only cancel their own booking
	if !middleware.IsAdmin(c) {
		existing, err := ctrl.BookingSvc.GetBookingByConfirmationCode(c.Request.Context(), code)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if existing.UserID != middleware.UserIDFromContext(c) {
			utils.JSONError(c, http.StatusForbidden, "access denied")
			return
		}
	}

	booking, err := ctrl.BookingSvc.CancelBooking(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CheckIn(c *gin.Context) {
	booking, err := ctrl.BookingSvc.CheckIn(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CheckOut(c *gin.Context) {
	booking, err := ctrl.BookingSvc.CheckOut(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
