package models

import "quickcourt/src/types"

type Venue struct {
	ID             uint                      `gorm:"primarykey" json:"id"`
	Name           string                    `json:"name,omitempty"`
	Slug           string                    `gorm:"index" json:"slug,omitempty"`
	Description    string                    `json:"description,omitempty"`
	Address        string                    `json:"address,omitempty"`
	ApprovalStatus types.VenueApprovalStatus `gorm:"default:'PENDING'" json:"approval_status,omitempty"`
	OwnerID        uint                      `json:"owner_id,omitempty"`

	Owner   *User        `gorm:"foreignKey:owner_id" json:"owner,omitempty"`
	Sports  []*Sport     `gorm:"many2many:venue_sports;" json:"sports,omitempty"`
	Courts  []Court      `gorm:"foreignKey:venue_id" json:"courts,omitempty"`
	Reviews []Review     `gorm:"foreignKey:venue_id" json:"reviews,omitempty"`
	Photos  []VenuePhoto `gorm:"foreignKey:venue_id" json:"photos,omitempty"`

	types.Timestamps
}

type VenuePhoto struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	VenueID uint   `json:"venue_id,omitempty"`
	URL     string `json:"url,omitempty"`

	types.Timestamps
}
