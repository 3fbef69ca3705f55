package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"quickcourt/src/db"
	"quickcourt/src/lib"
	"quickcourt/src/models"
	"quickcourt/src/types"
	"quickcourt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: &userId}).
				Preload("TimeSlot").
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID, UserID: &userId}).
				Preload("TimeSlot").
				Preload("TimeSlot.Court").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.CreateBooking(userId, body.TimeSlotID)
			if err != nil {
				if errors.Is(err, types.ErrSlotAlreadyBooked) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "timeslot not found"})
					return
				}
				log.Printf("Could not create booking: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not create booking"})
				return
			}
			checkoutURL := startCheckout(booking)
			ctx.JSON(http.StatusCreated, gin.H{"data": booking, "checkout_url": checkoutURL})
		}).
		POST("/bookings/:id/payment", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.PaymentResultRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var booking *models.Booking
			var err error
			if body.Status == string(types.PAYMENT_SUCCESS) {
				booking, err = utils.ConfirmPayment(params.ID, &body)
			} else {
				booking, err = utils.FailPayment(params.ID, body.Reason)
			}
			if err != nil {
				if errors.Is(err, types.ErrInvalidTransition) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
					return
				}
				log.Printf("Could not record payment for booking [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not record payment"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID, UserID: &userId}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			cancelled, err := utils.CancelBooking(params.ID)
			if err != nil {
				if errors.Is(err, types.ErrInvalidTransition) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				log.Printf("Could not cancel booking [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not cancel booking"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cancelled})
		})
	return g
}

// startCheckout opens a payment session for a fresh booking. Failures leave
// the booking PENDING and payable later; never a booking error.
func startCheckout(booking *models.Booking) *string {
	if os.Getenv("STRIPE_SECRET_KEY") == "" {
		return nil
	}
	amount := int64(booking.TotalPrice * 100)
	currency := "inr"
	description := fmt.Sprintf("QuickCourt booking %s", booking.RefCode)
	url, sessionId, err := lib.CreateBookingCheckout(description, amount, currency)
	if err != nil {
		log.Printf("Could not create checkout for booking [%d]: %s\n", booking.ID, err.Error())
		return nil
	}
	db := db.GetDb()
	err = db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: booking.ID}).
		Update("payment_order_id", sessionId).
		Error
	if err != nil {
		log.Printf("Could not store checkout session for booking [%d]: %s\n", booking.ID, err.Error())
	}
	return url
}
