package models

import (
	"quickcourt/src/types"
	"time"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Name         string     `json:"name,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         types.Role `gorm:"default:'USER'" json:"role,omitempty"`
	PasswordHash string     `json:"-"`

	// Set and cleared together; a populated code without an expiry is a bug.
	OTPCode     *string    `gorm:"size:6" json:"-"`
	OTPExpiry   *time.Time `json:"-"`
	OTPVerified bool       `gorm:"default:false" json:"otp_verified"`

	Bookings      []Booking      `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Venues        []Venue        `gorm:"foreignKey:owner_id" json:"venues,omitempty"`
	Reviews       []Review       `gorm:"foreignKey:user_id" json:"reviews,omitempty"`
	Notifications []Notification `gorm:"foreignKey:user_id" json:"notifications,omitempty"`

	types.Timestamps
}
