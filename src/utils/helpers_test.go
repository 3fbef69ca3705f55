package utils

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"quickcourt/src/db"
	"quickcourt/src/models"
	"quickcourt/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:helpers_test_%d?mode=memory&cache=shared&_busy_timeout=5000", testDBSeq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(10)
	err = gdb.AutoMigrate(
		&models.User{},
		&models.Sport{},
		&models.Venue{},
		&models.VenuePhoto{},
		&models.Court{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.Review{},
		&models.Notification{},
	)
	require.NoError(t, err)
	db.NewDB(gdb)
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Name: "Test User", Role: types.ROLE_USER}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func seedSlot(t *testing.T, gdb *gorm.DB, date string, start string, end string) *models.TimeSlot {
	t.Helper()
	owner := seedUser(t, gdb, fmt.Sprintf("owner-%s-%s@test.local", date, start))
	venue := models.Venue{Name: "Test Arena", OwnerID: owner.ID, ApprovalStatus: types.VENUE_APPROVED}
	require.NoError(t, gdb.Create(&venue).Error)
	court := models.Court{Name: "Court 1", VenueID: venue.ID, PricePerHour: 500}
	require.NoError(t, gdb.Create(&court).Error)
	slot := models.TimeSlot{CourtID: court.ID, Date: date, StartTime: start, EndTime: end}
	require.NoError(t, gdb.Create(&slot).Error)
	return &slot
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func pastDate() string {
	return time.Now().AddDate(0, 0, -7).Format("2006-01-02")
}

func TestOTPRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "a@x.com")

	code, err := IssueOTP(gdb, user)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	require.NoError(t, VerifyOTP("a@x.com", code))

	var fresh models.User
	require.NoError(t, gdb.First(&fresh, user.ID).Error)
	assert.True(t, fresh.OTPVerified)
	assert.Nil(t, fresh.OTPCode)
	assert.Nil(t, fresh.OTPExpiry)

	// Consumed codes never validate a second time.
	err = VerifyOTP("a@x.com", code)
	assert.ErrorIs(t, err, types.ErrOTPInvalid)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "wrong@x.com")

	code, err := IssueOTP(gdb, user)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, VerifyOTP("wrong@x.com", wrong), types.ErrOTPInvalid)

	// State unchanged, the right code still works.
	require.NoError(t, VerifyOTP("wrong@x.com", code))
}

func TestVerifyOTPExpired(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "expired@x.com")

	code, err := IssueOTP(gdb, user)
	require.NoError(t, err)

	stale := time.Now().Add(-1 * time.Minute)
	require.NoError(t, gdb.
		Model(&models.User{}).
		Where(&models.User{ID: user.ID}).
		Update("otp_expiry", stale).
		Error)

	assert.ErrorIs(t, VerifyOTP("expired@x.com", code), types.ErrOTPExpired)

	var fresh models.User
	require.NoError(t, gdb.First(&fresh, user.ID).Error)
	assert.False(t, fresh.OTPVerified)
}

func TestResendOTPInvalidatesOldCode(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "resend@x.com")

	oldCode, err := IssueOTP(gdb, user)
	require.NoError(t, err)

	newCode, _, err := ResendOTP("resend@x.com")
	require.NoError(t, err)

	if oldCode != newCode {
		assert.ErrorIs(t, VerifyOTP("resend@x.com", oldCode), types.ErrOTPInvalid)
	}
	require.NoError(t, VerifyOTP("resend@x.com", newCode))
}

func TestResendOTPAlreadyVerified(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "verified@x.com")
	require.NoError(t, gdb.
		Model(&models.User{}).
		Where(&models.User{ID: user.ID}).
		Update("otp_verified", true).
		Error)

	_, _, err := ResendOTP("verified@x.com")
	assert.ErrorIs(t, err, types.ErrAlreadyVerified)
}

func TestCreateBooking(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "booker@x.com")
	slot := seedSlot(t, gdb, futureDate(), "10:00", "12:00")

	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BOOKING_PENDING, booking.BookingStatus)
	assert.Equal(t, types.PAYMENT_PENDING, booking.PaymentStatus)
	assert.Equal(t, float64(1000), booking.TotalPrice)
	assert.NotEmpty(t, booking.RefCode)

	var fresh models.TimeSlot
	require.NoError(t, gdb.First(&fresh, slot.ID).Error)
	assert.True(t, fresh.IsBooked)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	gdb := newTestDB(t)
	first := seedUser(t, gdb, "first@x.com")
	second := seedUser(t, gdb, "second@x.com")
	slot := seedSlot(t, gdb, futureDate(), "10:00", "11:00")

	_, err := CreateBooking(first.ID, slot.ID)
	require.NoError(t, err)

	_, err = CreateBooking(second.ID, slot.ID)
	assert.ErrorIs(t, err, types.ErrSlotAlreadyBooked)

	var count int64
	require.NoError(t, gdb.Model(&models.Booking{}).Where(&models.Booking{TimeSlotID: slot.ID}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateBookingConcurrent(t *testing.T) {
	gdb := newTestDB(t)
	slot := seedSlot(t, gdb, futureDate(), "18:00", "19:00")
	users := make([]*models.User, 5)
	for i := range users {
		users[i] = seedUser(t, gdb, fmt.Sprintf("racer%d@x.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = CreateBooking(userID, slot.ID)
		}(i, u.ID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	var count int64
	require.NoError(t, gdb.Model(&models.Booking{}).Where(&models.Booking{TimeSlotID: slot.ID}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var fresh models.TimeSlot
	require.NoError(t, gdb.First(&fresh, slot.ID).Error)
	assert.True(t, fresh.IsBooked)
}

func TestConfirmPayment(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "pay@x.com")
	slot := seedSlot(t, gdb, futureDate(), "10:00", "11:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)

	params := &types.PaymentResultRequestBody{Status: "SUCCESS", OrderID: "order_1", PaymentID: "pay_1"}
	confirmed, err := ConfirmPayment(booking.ID, params)
	require.NoError(t, err)
	assert.Equal(t, types.BOOKING_CONFIRMED, confirmed.BookingStatus)
	assert.Equal(t, types.PAYMENT_SUCCESS, confirmed.PaymentStatus)

	// Each transition fires exactly once.
	_, err = ConfirmPayment(booking.ID, params)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestFailPaymentReleasesSlot(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "failpay@x.com")
	slot := seedSlot(t, gdb, futureDate(), "10:00", "11:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)

	failed, err := FailPayment(booking.ID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, types.PAYMENT_FAILED, failed.PaymentStatus)

	var fresh models.TimeSlot
	require.NoError(t, gdb.First(&fresh, slot.ID).Error)
	assert.False(t, fresh.IsBooked)
}

func TestConfirmAfterFailedPaymentRefused(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "failed-confirm@x.com")
	slot := seedSlot(t, gdb, futureDate(), "10:00", "11:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)

	_, err = FailPayment(booking.ID, "card declined")
	require.NoError(t, err)

	// The failed payment released the slot; a late success report must not
	// produce a CONFIRMED booking over a slot nobody holds.
	_, err = ConfirmPayment(booking.ID, &types.PaymentResultRequestBody{Status: "SUCCESS", OrderID: "order_late"})
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	var fresh models.Booking
	require.NoError(t, gdb.First(&fresh, booking.ID).Error)
	assert.Equal(t, types.BOOKING_PENDING, fresh.BookingStatus)
	assert.Equal(t, types.PAYMENT_FAILED, fresh.PaymentStatus)

	var reloaded models.TimeSlot
	require.NoError(t, gdb.First(&reloaded, slot.ID).Error)
	assert.False(t, reloaded.IsBooked)
}

func TestCancelPendingBookingReleasesFutureSlot(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "cancel@x.com")
	slot := seedSlot(t, gdb, futureDate(), "10:00", "11:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)

	cancelled, err := CancelBooking(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BOOKING_CANCELLED, cancelled.BookingStatus)

	var fresh models.TimeSlot
	require.NoError(t, gdb.First(&fresh, slot.ID).Error)
	assert.False(t, fresh.IsBooked)
}

func TestCancelAfterSlotStartKeepsSlotBurned(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "late@x.com")
	slot := seedSlot(t, gdb, pastDate(), "10:00", "11:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)

	_, err = CancelBooking(booking.ID)
	require.NoError(t, err)

	var fresh models.TimeSlot
	require.NoError(t, gdb.First(&fresh, slot.ID).Error)
	assert.True(t, fresh.IsBooked)
}

func TestBookingTransitionTable(t *testing.T) {
	gdb := newTestDB(t)

	// Terminal states refuse every further transition.
	for i, terminal := range []types.BookingStatus{types.BOOKING_CANCELLED, types.BOOKING_COMPLETED} {
		user := seedUser(t, gdb, fmt.Sprintf("terminal-%s@x.com", terminal))
		slot := seedSlot(t, gdb, futureDate(), fmt.Sprintf("%02d:00", 6+i), fmt.Sprintf("%02d:00", 7+i))
		booking, err := CreateBooking(user.ID, slot.ID)
		require.NoError(t, err)
		require.NoError(t, gdb.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Update("booking_status", terminal).
			Error)

		_, err = ConfirmPayment(booking.ID, &types.PaymentResultRequestBody{Status: "SUCCESS"})
		assert.ErrorIs(t, err, types.ErrInvalidTransition, "confirm from %s", terminal)
		_, err = FailPayment(booking.ID, "late failure")
		assert.ErrorIs(t, err, types.ErrInvalidTransition, "fail from %s", terminal)
		_, err = CancelBooking(booking.ID)
		assert.ErrorIs(t, err, types.ErrInvalidTransition, "cancel from %s", terminal)
	}

	// CONFIRMED can still be cancelled.
	user := seedUser(t, gdb, "confirmed-cancel@x.com")
	slot := seedSlot(t, gdb, futureDate(), "20:00", "21:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)
	_, err = ConfirmPayment(booking.ID, &types.PaymentResultRequestBody{Status: "SUCCESS"})
	require.NoError(t, err)
	_, err = CancelBooking(booking.ID)
	assert.NoError(t, err)
}

func TestCompleteElapsedBookings(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "done@x.com")
	slot := seedSlot(t, gdb, pastDate(), "10:00", "11:00")
	booking, err := CreateBooking(user.ID, slot.ID)
	require.NoError(t, err)
	_, err = ConfirmPayment(booking.ID, &types.PaymentResultRequestBody{Status: "SUCCESS"})
	require.NoError(t, err)

	require.NoError(t, CompleteElapsedBookings())

	var fresh models.Booking
	require.NoError(t, gdb.First(&fresh, booking.ID).Error)
	assert.Equal(t, types.BOOKING_COMPLETED, fresh.BookingStatus)

	// A pending booking for a past slot is untouched.
	user2 := seedUser(t, gdb, "pending-past@x.com")
	slot2 := seedSlot(t, gdb, pastDate(), "12:00", "13:00")
	booking2, err := CreateBooking(user2.ID, slot2.ID)
	require.NoError(t, err)
	require.NoError(t, CompleteElapsedBookings())
	var pending models.Booking
	require.NoError(t, gdb.First(&pending, booking2.ID).Error)
	assert.Equal(t, types.BOOKING_PENDING, pending.BookingStatus)
}

func TestSubmitReview(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "reviewer@x.com")
	owner := seedUser(t, gdb, "venueowner@x.com")
	venue := models.Venue{Name: "Reviewed Arena", OwnerID: owner.ID, ApprovalStatus: types.VENUE_APPROVED}
	require.NoError(t, gdb.Create(&venue).Error)

	for _, rating := range []int{0, 6} {
		_, err := SubmitReview(user.ID, venue.ID, rating, "")
		assert.ErrorIs(t, err, types.ErrInvalidRating, "rating %d", rating)
	}

	review, err := SubmitReview(user.ID, venue.ID, 5, "great courts")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)

	_, err = SubmitReview(user.ID, venue.ID, 1, "changed my mind")
	assert.ErrorIs(t, err, types.ErrDuplicateReview)

	// A different user may still review, at either bound.
	other := seedUser(t, gdb, "other-reviewer@x.com")
	_, err = SubmitReview(other.ID, venue.ID, 1, "")
	assert.NoError(t, err)

	// Updates touch rating/comment only; the pair stays unique.
	updated, err := UpdateReview(review.ID, user.ID, 4, "still good")
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	var count int64
	require.NoError(t, gdb.Model(&models.Review{}).Where(&models.Review{VenueID: venue.ID}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestNotifyUserPersists(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb, "notify@x.com")

	require.NoError(t, NotifyUser(user.ID, "your court awaits"))

	var notifications []models.Notification
	require.NoError(t, gdb.Where(&models.Notification{UserID: user.ID}).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsRead)
	assert.Equal(t, "your court awaits", notifications[0].Message)
}

func TestGenerateOTPRange(t *testing.T) {
	for range 32 {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
