package models

import "time"

// Page lifecycle categories
const (
	PageCategoryUnassigned   = "unassigned"
	PageCategoryPreRehearsal = "pre-rehearsal"
	PageCategoryOngoing      = "ongoing"
	PageCategoryArchive      = "archive"
)

// PraiseNight is a row of the pages table plus its assembled songs.
type PraiseNight struct {
	Page_ID           int               `json:"id" goqu:"skipinsert"`
	Name              string            `json:"name"`
	Date              string            `json:"date"`
	Location          string            `json:"location"`
	Category          string            `json:"category"`
	Banner_Image      *string           `json:"bannerImage"`
	Countdown_Days    int               `json:"countdownDays"`
	Countdown_Hours   int               `json:"countdownHours"`
	Countdown_Minutes int               `json:"countdownMinutes"`
	Countdown_Seconds int               `json:"countdownSeconds"`
	Datetime_Create   time.Time         `json:"datetimeCreate" goqu:"skipinsert,skipupdate"`
	Datetime_Update   time.Time         `json:"datetimeUpdate" goqu:"skipinsert,skipupdate"`
	Songs             []PraiseNightSong `json:"songs" db:"-"`
}

type PraiseNightCreate struct {
	Name              string  `json:"name" binding:"required"`
	Date              string  `json:"date"`
	Location          string  `json:"location"`
	Category          string  `json:"category"`
	Banner_Image      *string `json:"bannerImage"`
	Countdown_Days    int     `json:"countdownDays"`
	Countdown_Hours   int     `json:"countdownHours"`
	Countdown_Minutes int     `json:"countdownMinutes"`
	Countdown_Seconds int     `json:"countdownSeconds"`
}

// PraiseNightUpdate carries the fields of a partial page update; nil fields are left alone.
type PraiseNightUpdate struct {
	Name              *string `json:"name"`
	Date              *string `json:"date"`
	Location          *string `json:"location"`
	Category          *string `json:"category"`
	Banner_Image      *string `json:"bannerImage"`
	Countdown_Days    *int    `json:"countdownDays"`
	Countdown_Hours   *int    `json:"countdownHours"`
	Countdown_Minutes *int    `json:"countdownMinutes"`
	Countdown_Seconds *int    `json:"countdownSeconds"`
}

// IsPageCategory reports whether category is one of the page lifecycle values.
func IsPageCategory(category string) bool {
	switch category {
	case PageCategoryUnassigned, PageCategoryPreRehearsal, PageCategoryOngoing, PageCategoryArchive:
		return true
	}
	return false
}
