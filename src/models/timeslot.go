package models

import (
	"time"

	"quickcourt/src/config"
	"quickcourt/src/types"
)

type TimeSlot struct {
	ID      uint `gorm:"primarykey" json:"id"`
	CourtID uint `gorm:"uniqueIndex:idx_court_date_start" json:"court_id,omitempty"`
	// Calendar date in 2006-01-02 form; start/end are 15:04 wall-clock times.
	Date      string `gorm:"uniqueIndex:idx_court_date_start;size:10" json:"date,omitempty"`
	StartTime string `gorm:"uniqueIndex:idx_court_date_start;size:5" json:"start_time,omitempty"`
	EndTime   string `gorm:"size:5" json:"end_time,omitempty"`
	IsBooked  bool   `gorm:"default:false" json:"is_booked"`

	Court Court `json:"court,omitempty"`

	types.Timestamps
}

// StartsAt resolves the slot's opening instant in the given location.
func (t *TimeSlot) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(config.DATE_FORMAT+" "+config.TIME_OF_DAY_FORMAT, t.Date+" "+t.StartTime, loc)
}

// EndsAt resolves the slot's closing instant in the given location.
func (t *TimeSlot) EndsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(config.DATE_FORMAT+" "+config.TIME_OF_DAY_FORMAT, t.Date+" "+t.EndTime, loc)
}

// DurationHours is the slot length used for pricing.
func (t *TimeSlot) DurationHours() (float64, error) {
	start, err := time.Parse(config.TIME_OF_DAY_FORMAT, t.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := time.Parse(config.TIME_OF_DAY_FORMAT, t.EndTime)
	if err != nil {
		return 0, err
	}
	return end.Sub(start).Hours(), nil
}
