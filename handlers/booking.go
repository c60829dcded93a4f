package handlers

import (
	"net/http"
	"strconv"

	"busbook/middleware"
	"busbook/models"
	"busbook/services/booking"
	"busbook/utils"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler reserves seats and records the booking.
func CreateBookingHandler(bookingSvc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.BookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		resp, err := bookingSvc.CreateBooking(c.Request.Context(), middleware.UserID(c), input, models.BookingSourceDirect)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// ListBookingsHandler lists the user's bookings, newest first.
func ListBookingsHandler(bookingSvc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

		bookings, err := bookingSvc.ListBookings(c.Request.Context(), middleware.UserID(c), limit)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
	}
}

// GetBookingHandler serves one booking with full trip detail.
func GetBookingHandler(bookingSvc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := bookingSvc.GetBooking(c.Request.Context(), middleware.UserID(c), c.Param("bookingID"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// CancelBookingHandler cancels a confirmed booking, releasing its seats and
// refunding wallet payments.
func CancelBookingHandler(bookingSvc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := bookingSvc.CancelBooking(c.Request.Context(), middleware.UserID(c), c.Param("bookingID"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
