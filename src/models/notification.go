package models

import "quickcourt/src/types"

type Notification struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	UserID  uint   `gorm:"index" json:"user_id,omitempty"`
	Message string `gorm:"size:255" json:"message"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	User User `json:"user,omitempty"`

	types.Timestamps
}
