package models

import "time"

// History entry type constants
const (
	// HistoryTypeLyrics holds a full lyrics snapshot.
	HistoryTypeLyrics = "lyrics"

	// HistoryTypeSolfas holds a full solfas snapshot.
	HistoryTypeSolfas = "solfas"

	// HistoryTypeAudio holds the new audio URL.
	HistoryTypeAudio = "audio"

	// HistoryTypeComment copies a newly added comment.
	HistoryTypeComment = "comment"

	// HistoryTypeMetadata describes personnel changes, rehearsals, and plain edits.
	HistoryTypeMetadata = "metadata"
)

// HistoryEntry represents an entry in the song_history table.
// Entries are append-only.
type HistoryEntry struct {
	History_ID int       `json:"id" goqu:"skipinsert"`
	Song_ID    int       `json:"songId"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Date       time.Time `json:"date"`
	Version    int       `json:"version"`
}
