package models

import "quickcourt/src/types"

type Court struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	Name         string  `json:"name,omitempty"`
	VenueID      uint    `json:"venue_id,omitempty"`
	SportID      uint    `json:"sport_id,omitempty"`
	PricePerHour float64 `json:"price_per_hour"`
	// Day name to open/close pair, e.g. {"Monday": ["09:00", "21:00"]}.
	OperatingHours *types.JSONB `gorm:"type:jsonb" json:"operating_hours,omitempty"`

	Venue     Venue      `json:"venue,omitempty"`
	Sport     Sport      `json:"sport,omitempty"`
	TimeSlots []TimeSlot `gorm:"foreignKey:court_id" json:"timeslots,omitempty"`

	types.Timestamps
}
