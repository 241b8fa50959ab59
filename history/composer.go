// Package history decides which song_history entries a song save appends.
//
// The composer is pure: it reads the stored song (with its history and
// comments) and the editor draft and returns new entries. Persisting them is
// the caller's job.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/PraiseNight/models"
)

const (
	rehearsalPrefix = "Rehearsal #"
	emptyFieldLabel = "None"

	// FallbackTimeLayout formats the timestamp of a plain "Song edited" entry.
	FallbackTimeLayout = "Jan 2, 2006 3:04 PM"
)

// Draft is the resolved pending state of a song: the draft fields with the
// audio URL already resolved (see ResolveAudioURL) and the rehearsal count the
// admin entered.
type Draft struct {
	Song       models.PraiseNightSong
	Rehearsals int
}

// metadataField names one personnel/music field and how to read it.
type metadataField struct {
	label string
	get   func(models.PraiseNightSong) string
}

var metadataFields = []metadataField{
	{"Lead Singer", func(s models.PraiseNightSong) string { return s.Lead_Singer }},
	{"Writer", func(s models.PraiseNightSong) string { return s.Writer }},
	{"Conductor", func(s models.PraiseNightSong) string { return s.Conductor }},
	{"Key", func(s models.PraiseNightSong) string { return s.Song_Key }},
	{"Tempo", func(s models.PraiseNightSong) string { return s.Tempo }},
	{"Lead Keyboardist", func(s models.PraiseNightSong) string { return s.Lead_Keyboardist }},
	{"Lead Guitarist", func(s models.PraiseNightSong) string { return s.Lead_Guitarist }},
	{"Drummer", func(s models.PraiseNightSong) string { return s.Drummer }},
}

// Compose returns the history entries to append when draft is saved over
// previous. New songs (previous == nil) get no history. Every save of an
// existing song yields at least one entry.
func Compose(previous *models.PraiseNightSong, draft Draft, now time.Time) []models.HistoryEntry {
	if previous == nil {
		return nil
	}

	versions := NewVersioner(previous.History)
	next := draft.Song
	var entries []models.HistoryEntry

	add := func(entryType, content string, date time.Time) {
		entries = append(entries, models.HistoryEntry{
			Song_ID: previous.Song_ID,
			Type:    entryType,
			Content: content,
			Date:    date,
			Version: versions.Next(entryType),
		})
	}

	for n := RehearsalCount(previous.History) + 1; n <= draft.Rehearsals; n++ {
		add(models.HistoryTypeMetadata, fmt.Sprintf("%s%d - Practice session", rehearsalPrefix, n), now)
	}

	if changes := MetadataChanges(*previous, next); len(changes) > 0 {
		add(models.HistoryTypeMetadata, strings.Join(changes, " | "), now)
	}

	if next.Lyrics != previous.Lyrics {
		add(models.HistoryTypeLyrics, next.Lyrics, now)
	}

	if next.Solfas != previous.Solfas {
		add(models.HistoryTypeSolfas, next.Solfas, now)
	}

	if next.Audio_File != previous.Audio_File {
		add(models.HistoryTypeAudio, next.Audio_File, now)
	}

	if len(next.Comments) > len(previous.Comments) {
		for _, comment := range next.Comments[len(previous.Comments):] {
			date := comment.Date
			if date.IsZero() {
				date = now
			}
			add(models.HistoryTypeComment, comment.Text, date)
		}
	}

	if len(entries) == 0 {
		add(models.HistoryTypeMetadata, "Song edited at "+now.Format(FallbackTimeLayout), now)
	}

	return entries
}

// MetadataChanges lists "Field: old → new" for every personnel/music field
// that differs, in display order.
func MetadataChanges(previous, next models.PraiseNightSong) []string {
	var changes []string
	for _, field := range metadataFields {
		before, after := field.get(previous), field.get(next)
		if before == after {
			continue
		}
		changes = append(changes, fmt.Sprintf("%s: %s → %s", field.label, orNone(before), orNone(after)))
	}
	return changes
}

// RehearsalCount is the number of rehearsals recorded in history.
func RehearsalCount(entries []models.HistoryEntry) int {
	count := 0
	for _, entry := range entries {
		if entry.Type == models.HistoryTypeMetadata && strings.HasPrefix(entry.Content, rehearsalPrefix) {
			count++
		}
	}
	return count
}

// ResolveAudioURL picks the audio URL a song should carry. A file selected
// from the media library wins over a manually entered URL.
func ResolveAudioURL(libraryURL, manualURL string) string {
	if libraryURL != "" {
		return libraryURL
	}
	return manualURL
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return emptyFieldLabel
	}
	return value
}
