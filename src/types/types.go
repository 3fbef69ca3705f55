package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Role string

const (
	ROLE_USER  Role = "USER"
	ROLE_OWNER Role = "OWNER"
	ROLE_ADMIN Role = "ADMIN"
)

type VenueApprovalStatus string

const (
	VENUE_PENDING  VenueApprovalStatus = "PENDING"
	VENUE_APPROVED VenueApprovalStatus = "APPROVED"
	VENUE_REJECTED VenueApprovalStatus = "REJECTED"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "PENDING"
	BOOKING_CONFIRMED BookingStatus = "CONFIRMED"
	BOOKING_CANCELLED BookingStatus = "CANCELLED"
	BOOKING_COMPLETED BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "PENDING"
	PAYMENT_SUCCESS PaymentStatus = "SUCCESS"
	PAYMENT_FAILED  PaymentStatus = "FAILED"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=USER OWNER"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyOTPRequestBody struct {
	Email   string `json:"email" binding:"required,email"`
	OTPCode string `json:"otp_code" binding:"required,len=6,numeric"`
}

type ResendOTPRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateSportRequestBody struct {
	Name string `json:"name" binding:"required"`
}

type CreateVenueRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address" binding:"required"`
	Sports      []uint `json:"sports,omitempty"`
}

type VenueApprovalRequestBody struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type CreateCourtRequestBody struct {
	Name           string  `json:"name" binding:"required"`
	SportID        uint    `json:"sport" binding:"required"`
	PricePerHour   float64 `json:"price_per_hour" binding:"required,gt=0"`
	OperatingHours JSONB   `json:"operating_hours,omitempty"`
}

type CreateTimeSlotRequestBody struct {
	Date      string `json:"date" binding:"required,slotdate"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required,gttime=StartTime"`
}

type CreateBookingRequestBody struct {
	TimeSlotID uint `json:"timeslot" binding:"required"`
}

type PaymentResultRequestBody struct {
	Status    string `json:"status" binding:"required,oneof=SUCCESS FAILED"`
	OrderID   string `json:"order_id,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
	Signature string `json:"signature,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type SubmitReviewRequestBody struct {
	VenueID uint   `json:"venue" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

type UpdateReviewRequestBody struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

type Handler func(payload string)
