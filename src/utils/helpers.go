package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"quickcourt/src/config"
	"quickcourt/src/db"
	"quickcourt/src/lib"
	"quickcourt/src/lib/mailer"
	"quickcourt/src/models"
	"quickcourt/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateJWT(email string, id uint, role types.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   fmt.Sprint(id),
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtKey)
}

// GenerateOTP draws a 6-digit code uniformly from [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// IssueOTP stores a fresh code with its expiry on the user. Both fields move
// in one UPDATE so an old code can never outlive its own expiry.
func IssueOTP(tx *gorm.DB, user *models.User) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	expiry := time.Now().Add(config.OTP_TTL_MINUTES * time.Minute)
	err = tx.
		Model(&models.User{}).
		Where(&models.User{ID: user.ID}).
		Updates(map[string]any{
			"otp_code":   code,
			"otp_expiry": expiry,
		}).
		Error
	if err != nil {
		return "", err
	}
	user.OTPCode = &code
	user.OTPExpiry = &expiry
	return code, nil
}

// VerifyOTP consumes the stored code. On success the verified flag is set and
// both OTP fields are cleared in one UPDATE, so a code validates exactly once.
func VerifyOTP(email string, code string) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.
			Model(&models.User{}).
			Where(&models.User{Email: email}).
			First(&user).
			Error; err != nil {
			return err
		}
		if user.OTPCode == nil || user.OTPExpiry == nil || *user.OTPCode != code {
			return types.ErrOTPInvalid
		}
		if time.Now().After(*user.OTPExpiry) {
			return types.ErrOTPExpired
		}
		return tx.
			Model(&models.User{}).
			Where(&models.User{ID: user.ID}).
			Updates(map[string]any{
				"otp_verified": true,
				"otp_code":     nil,
				"otp_expiry":   nil,
			}).
			Error
	})
}

// ResendOTP reissues a code, invalidating any outstanding one. Verified users
// are refused; a redis cooldown throttles repeat requests when available.
func ResendOTP(email string) (string, *models.User, error) {
	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: email}).
		First(&user).
		Error; err != nil {
		return "", nil, err
	}
	if user.OTPVerified {
		return "", nil, types.ErrAlreadyVerified
	}
	if rd := lib.GetRedisClient(); rd != nil {
		key := fmt.Sprintf("otp_resend:%s", email)
		allowed, err := rd.SetNX(context.Background(), key, "1", config.OTP_RESEND_COOLDOWN_SECONDS*time.Second).Result()
		if err != nil {
			log.Printf("[redis] Error on resend cooldown for %s: %s\n", email, err.Error())
		} else if !allowed {
			return "", nil, types.ErrResendTooSoon
		}
	}
	code, err := IssueOTP(db, &user)
	if err != nil {
		return "", nil, err
	}
	return code, &user, nil
}

// SendOTPMail dispatches the verification code. Fire and forget: delivery
// failure is logged, never surfaced to the caller.
func SendOTPMail(user *models.User, code string) {
	go func() {
		err := mailer.NewMailerMessage(&lib.SendMailInput{
			From:     os.Getenv("EMAIL_FROM"),
			FromName: "QuickCourt",
			To:       []string{user.Email},
			Subject:  "QuickCourt OTP Verification",
			Body:     fmt.Sprintf("Your OTP code is %s. It will expire in %d minutes.", code, config.OTP_TTL_MINUTES),
		})
		if err != nil {
			log.Printf("Error sending OTP mail to %s: %s\n", user.Email, err.Error())
		}
	}()
}

// CreateBooking claims the timeslot and opens a PENDING booking in a single
// transaction. The claim is a conditional update: of any number of concurrent
// callers exactly one flips is_booked, the rest get ErrSlotAlreadyBooked. A
// rollback of the booking insert also rolls the claim back, so a claimed slot
// without a booking cannot be left behind.
func CreateBooking(userID uint, timeslotID uint) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.
			Model(&models.TimeSlot{}).
			Where(&models.TimeSlot{ID: timeslotID}).
			First(&slot).
			Error; err != nil {
			return err
		}
		var court models.Court
		if err := tx.
			Model(&models.Court{}).
			Where(&models.Court{ID: slot.CourtID}).
			First(&court).
			Error; err != nil {
			return err
		}
		hours, err := slot.DurationHours()
		if err != nil {
			return err
		}
		claim := tx.
			Model(&models.TimeSlot{}).
			Where("id = ? AND is_booked = ?", timeslotID, false).
			Update("is_booked", true)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return types.ErrSlotAlreadyBooked
		}
		booking = models.Booking{
			TimeSlotID:    timeslotID,
			RefCode:       uuid.NewString(),
			UserID:        &userID,
			TotalPrice:    court.PricePerHour * hours,
			BookingStatus: types.BOOKING_PENDING,
			PaymentStatus: types.PAYMENT_PENDING,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	go invalidateAvailabilityCache(booking.TimeSlotID)
	return &booking, nil
}

// ConfirmPayment moves a PENDING booking to CONFIRMED/SUCCESS. The guard is a
// conditional update keyed on both current statuses; a booking that already
// left PENDING, or whose payment already failed and released the slot,
// reports ErrInvalidTransition, never a silent re-confirmation.
func ConfirmPayment(bookingID uint, params *types.PaymentResultRequestBody) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status = ? AND payment_status = ?", bookingID, types.BOOKING_PENDING, types.PAYMENT_PENDING).
			Updates(map[string]any{
				"booking_status":    types.BOOKING_CONFIRMED,
				"payment_status":    types.PAYMENT_SUCCESS,
				"payment_order_id":  params.OrderID,
				"payment_id":        params.PaymentID,
				"payment_signature": params.Signature,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	booking.BookingStatus = types.BOOKING_CONFIRMED
	booking.PaymentStatus = types.PAYMENT_SUCCESS
	go notifyBookingConfirmed(booking.ID)
	return &booking, nil
}

// FailPayment records the failed charge and releases the slot claim in the
// same transaction, the exact inverse of CreateBooking's claim.
func FailPayment(bookingID uint, reason string) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status = ?", bookingID, types.BOOKING_PENDING).
			Update("payment_status", types.PAYMENT_FAILED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrInvalidTransition
		}
		if err := tx.
			Model(&models.TimeSlot{}).
			Where(&models.TimeSlot{ID: booking.TimeSlotID}).
			Update("is_booked", false).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Payment failed for Booking [%d]: %s\n", bookingID, reason)
	booking.PaymentStatus = types.PAYMENT_FAILED
	go invalidateAvailabilityCache(booking.TimeSlotID)
	return &booking, nil
}

// CancelBooking is valid from PENDING or CONFIRMED. The slot is released only
// when the cancellation lands before the slot's start; a slot whose time has
// begun stays burned.
func CancelBooking(bookingID uint) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Preload("TimeSlot").
			First(&booking).
			Error; err != nil {
			return err
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status IN ?", bookingID, []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}).
			Update("booking_status", types.BOOKING_CANCELLED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrInvalidTransition
		}
		startsAt, err := booking.TimeSlot.StartsAt(time.Local)
		if err != nil {
			return err
		}
		if time.Now().Before(startsAt) {
			if err := tx.
				Model(&models.TimeSlot{}).
				Where(&models.TimeSlot{ID: booking.TimeSlotID}).
				Update("is_booked", false).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	booking.BookingStatus = types.BOOKING_CANCELLED
	go invalidateAvailabilityCache(booking.TimeSlotID)
	return &booking, nil
}

// CompleteElapsedBookings flips CONFIRMED bookings whose slot has ended to
// COMPLETED. Runs on the scheduler; there is no manual trigger.
func CompleteElapsedBookings() error {
	db := db.GetDb()
	now := time.Now()
	today := now.Format(config.DATE_FORMAT)
	clock := now.Format(config.TIME_OF_DAY_FORMAT)
	return db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.
			Model(&models.Booking{}).
			Joins("JOIN time_slots ON time_slots.id = bookings.time_slot_id").
			Where("bookings.booking_status = ?", types.BOOKING_CONFIRMED).
			Where("time_slots.date < ? OR (time_slots.date = ? AND time_slots.end_time <= ?)", today, today, clock).
			Pluck("bookings.id", &ids).
			Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		err = tx.
			Model(&models.Booking{}).
			Where("id IN ? AND booking_status = ?", ids, types.BOOKING_CONFIRMED).
			Update("booking_status", types.BOOKING_COMPLETED).
			Error
		if err != nil {
			return err
		}
		log.Printf("Marked %d bookings as completed\n", len(ids))
		return nil
	})
}

// SubmitReview enforces one review per (venue, user) pair and a 1..5 rating.
func SubmitReview(userID uint, venueID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, types.ErrInvalidRating
	}
	db := db.GetDb()
	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var venue models.Venue
		if err := tx.
			Model(&models.Venue{}).
			Where(&models.Venue{ID: venueID}).
			First(&venue).
			Error; err != nil {
			return err
		}
		var count int64
		if err := tx.
			Model(&models.Review{}).
			Where(&models.Review{VenueID: venueID, UserID: userID}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return types.ErrDuplicateReview
		}
		review = models.Review{
			VenueID: venueID,
			UserID:  userID,
			Rating:  rating,
			Comment: comment,
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview changes rating/comment on an existing review. The (venue,
// user) pairing is fixed at creation and never repointed.
func UpdateReview(reviewID uint, userID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, types.ErrInvalidRating
	}
	db := db.GetDb()
	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Review{}).
			Where(&models.Review{ID: reviewID, UserID: userID}).
			First(&review).
			Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Review{}).
			Where(&models.Review{ID: reviewID}).
			Updates(map[string]any{
				"rating":  rating,
				"comment": comment,
			}).
			Error
	})
	if err != nil {
		return nil, err
	}
	review.Rating = rating
	review.Comment = comment
	return &review, nil
}

// NotifyUser persists an in-app notification and mails a copy in the
// background. Delivery failure never propagates to the caller.
func NotifyUser(userID uint, message string) error {
	db := db.GetDb()
	notification := models.Notification{
		UserID:  userID,
		Message: message,
	}
	if err := db.Create(&notification).Error; err != nil {
		return err
	}
	go func() {
		var user models.User
		if err := db.
			Model(&models.User{}).
			Select("id", "email", "name").
			Where(&models.User{ID: userID}).
			First(&user).
			Error; err != nil {
			log.Printf("Could not load user [%d] for notification: %s\n", userID, err.Error())
			return
		}
		err := mailer.NewMailerMessage(&lib.SendMailInput{
			From:     os.Getenv("EMAIL_FROM"),
			FromName: "QuickCourt",
			To:       []string{user.Email},
			Subject:  "QuickCourt",
			Body:     message,
		})
		if err != nil {
			log.Printf("Error mailing notification to %s: %s\n", user.Email, err.Error())
		}
	}()
	return nil
}

func notifyBookingConfirmed(bookingID uint) {
	db := db.GetDb()
	var booking models.Booking
	err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: bookingID}).
		Preload("TimeSlot").
		Preload("User").
		First(&booking).
		Error
	if err != nil {
		log.Printf("Could not load booking [%d] for notifications: %s\n", bookingID, err.Error())
		return
	}
	if booking.UserID == nil || booking.User == nil {
		return
	}
	message := fmt.Sprintf("Your booking %s for %s %s-%s is confirmed.", booking.RefCode, booking.TimeSlot.Date, booking.TimeSlot.StartTime, booking.TimeSlot.EndTime)
	if err := NotifyUser(*booking.UserID, message); err != nil {
		log.Printf("Error creating notification for booking [%d]: %s\n", bookingID, err.Error())
	}
	if booking.User.Phone == "" {
		return
	}
	messageId, err := lib.SNSPublishSMS(booking.User.Phone, message)
	if err != nil {
		log.Printf("Error sending SMS for booking [%d]: %s\n", bookingID, err.Error())
		return
	}
	err = db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: bookingID}).
		Update("sms_message_id", messageId).
		Error
	if err != nil {
		log.Printf("Error storing SMS id for booking [%d]: %s\n", bookingID, err.Error())
	}
}

func invalidateAvailabilityCache(timeslotID uint) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	db := db.GetDb()
	var slot models.TimeSlot
	if err := db.
		Model(&models.TimeSlot{}).
		Select("id", "court_id", "date").
		Where(&models.TimeSlot{ID: timeslotID}).
		First(&slot).
		Error; err != nil {
		return
	}
	key := fmt.Sprintf("slots:%d:%s", slot.CourtID, slot.Date)
	if err := rd.Del(context.Background(), key).Err(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[redis] Error invalidating %s: %s\n", key, err.Error())
	}
}
