package models

import "quickcourt/src/types"

type Review struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	VenueID uint   `gorm:"uniqueIndex:idx_venue_user" json:"venue_id,omitempty"`
	UserID  uint   `gorm:"uniqueIndex:idx_venue_user" json:"user_id,omitempty"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`

	Venue Venue `json:"venue,omitempty"`
	User  User  `json:"user,omitempty"`

	types.Timestamps
}
