package models

import "quickcourt/src/types"

type Booking struct {
	ID uint `gorm:"primarykey" json:"id"`
	// A timeslot is referenced by at most one booking, ever. The unique index
	// is the structural backstop behind the claim in CreateBooking.
	TimeSlotID uint `gorm:"uniqueIndex" json:"timeslot_id,omitempty"`
	// Opaque reference quoted in emails, SMS and checkout descriptions.
	RefCode       string              `gorm:"size:36;uniqueIndex" json:"ref_code,omitempty"`
	UserID        *uint               `json:"user_id,omitempty"`
	TotalPrice    float64             `json:"total_price"`
	BookingStatus types.BookingStatus `gorm:"default:'PENDING'" json:"booking_status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'PENDING'" json:"payment_status,omitempty"`

	// External correlation ids: payment gateway order/payment/signature and
	// the SMS message id returned by the dispatcher.
	PaymentOrderID   *string `gorm:"size:100" json:"-"`
	PaymentID        *string `gorm:"size:100" json:"-"`
	PaymentSignature *string `gorm:"size:255" json:"-"`
	SMSMessageID     *string `gorm:"size:100" json:"-"`

	TimeSlot TimeSlot `json:"timeslot,omitempty"`
	User     *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
