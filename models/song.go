package models

import "time"

const (
	SongStatusHeard   = "heard"
	SongStatusUnheard = "unheard"

	// UncategorizedCategory is assigned to songs whose category is deleted.
	UncategorizedCategory = "Uncategorized"
)

type PraiseNightSong struct {
	Song_ID          int            `json:"id" goqu:"skipinsert"`
	Page_ID          int            `json:"praiseNightId"`
	Title            string         `json:"title"`
	Status           string         `json:"status"`
	Category         string         `json:"category"`
	Lead_Singer      string         `json:"leadSinger"`
	Writer           string         `json:"writer"`
	Conductor        string         `json:"conductor"`
	Song_Key         string         `json:"key"`
	Tempo            string         `json:"tempo"`
	Lead_Keyboardist string         `json:"leadKeyboardist"`
	Lead_Guitarist   string         `json:"leadGuitarist"`
	Drummer          string         `json:"drummer"`
	Lyrics           string         `json:"lyrics"`
	Solfas           string         `json:"solfas"`
	Audio_File       string         `json:"audioFile"`
	Media_ID         *int           `json:"mediaId"`
	Datetime_Create  time.Time      `json:"datetimeCreate" goqu:"skipinsert,skipupdate"`
	Datetime_Update  time.Time      `json:"datetimeUpdate" goqu:"skipinsert,skipupdate"`
	Comments         []Comment      `json:"comments" db:"-"`
	History          []HistoryEntry `json:"history" db:"-"`
}

type SongCreate struct {
	Title            string `json:"title" binding:"required"`
	Status           string `json:"status"`
	Category         string `json:"category"`
	Lead_Singer      string `json:"leadSinger"`
	Writer           string `json:"writer"`
	Conductor        string `json:"conductor"`
	Song_Key         string `json:"key"`
	Tempo            string `json:"tempo"`
	Lead_Keyboardist string `json:"leadKeyboardist"`
	Lead_Guitarist   string `json:"leadGuitarist"`
	Drummer          string `json:"drummer"`
	Lyrics           string `json:"lyrics"`
	Solfas           string `json:"solfas"`
	Audio_File       string `json:"audioFile"`
	Media_ID         *int   `json:"mediaId"`
}

// SongDraft is the full pending state of a song in the editor.
// Comments without an id are new and get inserted on save.
type SongDraft struct {
	Title             string     `json:"title"`
	Status            string     `json:"status"`
	Category          string     `json:"category"`
	Lead_Singer       string     `json:"leadSinger"`
	Writer            string     `json:"writer"`
	Conductor         string     `json:"conductor"`
	Song_Key          string     `json:"key"`
	Tempo             string     `json:"tempo"`
	Lead_Keyboardist  string     `json:"leadKeyboardist"`
	Lead_Guitarist    string     `json:"leadGuitarist"`
	Drummer           string     `json:"drummer"`
	Lyrics            string     `json:"lyrics"`
	Solfas            string     `json:"solfas"`
	Audio_File        string     `json:"audioFile"`
	Media_ID          *int       `json:"mediaId"`
	Comments          []Comment  `json:"comments"`
	Rehearsal_Count   int        `json:"rehearsalCount"`
	Last_Known_Update *time.Time `json:"lastKnownUpdate"`
}

// IsSongStatus reports whether status is heard or unheard.
func IsSongStatus(status string) bool {
	return status == SongStatusHeard || status == SongStatusUnheard
}
