package models

import "quickcourt/src/types"

type Sport struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`

	Venues []*Venue `gorm:"many2many:venue_sports;" json:"venues,omitempty"`

	types.Timestamps
}
