package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PraiseNight/history"
	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// GetSongsByPage returns the songs of a page with comments and history.
func GetSongsByPage(ctx context.Context, pageID int) ([]models.PraiseNightSong, error) {
	if err := ensurePageExists(ctx, initializers.DB, pageID); err != nil {
		return nil, err
	}

	songs, err := loadSongs(ctx, initializers.DB, goqu.C("page_id").Eq(pageID))
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.PraiseNightSong{}
	}
	return songs, nil
}

// GetSong looks a song up by id.
func GetSong(ctx context.Context, songID int) (models.PraiseNightSong, error) {
	songs, err := loadSongs(ctx, initializers.DB, goqu.C("song_id").Eq(songID))
	if err != nil {
		return models.PraiseNightSong{}, err
	}
	if len(songs) == 0 {
		return models.PraiseNightSong{}, notFoundError("song", songID)
	}
	return songs[0], nil
}

// CreateSong adds a song to a page. New songs start without history.
func CreateSong(ctx context.Context, pageID int, body models.SongCreate) (models.PraiseNightSong, error) {
	var song models.PraiseNightSong

	title := strings.TrimSpace(body.Title)
	if title == "" {
		return song, validationError("song title is required")
	}
	if body.Status == "" {
		body.Status = models.SongStatusUnheard
	}
	if !models.IsSongStatus(body.Status) {
		return song, validationError("unknown song status %q", body.Status)
	}

	if err := ensurePageExists(ctx, initializers.DB, pageID); err != nil {
		return song, err
	}

	audioFile, err := resolveSongAudio(ctx, initializers.DB, body.Media_ID, body.Audio_File)
	if err != nil {
		return song, err
	}

	row := models.PraiseNightSong{
		Page_ID:          pageID,
		Title:            title,
		Status:           body.Status,
		Category:         strings.TrimSpace(body.Category),
		Lead_Singer:      body.Lead_Singer,
		Writer:           body.Writer,
		Conductor:        body.Conductor,
		Song_Key:         body.Song_Key,
		Tempo:            body.Tempo,
		Lead_Keyboardist: body.Lead_Keyboardist,
		Lead_Guitarist:   body.Lead_Guitarist,
		Drummer:          body.Drummer,
		Lyrics:           body.Lyrics,
		Solfas:           body.Solfas,
		Audio_File:       audioFile,
		Media_ID:         body.Media_ID,
	}

	_, err = initializers.DB.Insert("songs").
		Rows(row).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &song)
	if err != nil {
		if isUniqueViolation(err) {
			return song, validationError("a song titled %q already exists on this page", title)
		}
		return song, fmt.Errorf("failed to create song: %w", err)
	}

	song.Comments = []models.Comment{}
	song.History = []models.HistoryEntry{}
	return song, nil
}

// SaveSongEdit persists an editor draft over the stored song: the song row,
// any new comments and the composed history entries are written in one
// transaction. A draft carrying a stale lastKnownUpdate fails with ErrConflict.
func SaveSongEdit(ctx context.Context, songID int, draft models.SongDraft) (models.PraiseNightSong, error) {
	var saved models.PraiseNightSong

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return saved, validationError("song title is required")
	}
	if draft.Status == "" {
		draft.Status = models.SongStatusUnheard
	}
	if !models.IsSongStatus(draft.Status) {
		return saved, validationError("unknown song status %q", draft.Status)
	}

	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var previous models.PraiseNightSong
		found, err := tx.From("songs").
			Where(goqu.C("song_id").Eq(songID)).
			ForUpdate(exp.Wait).
			ScanStructContext(ctx, &previous)
		if err != nil {
			return fmt.Errorf("failed to fetch song: %w", err)
		}
		if !found {
			return notFoundError("song", songID)
		}

		if draft.Last_Known_Update != nil && !previous.Datetime_Update.Equal(*draft.Last_Known_Update) {
			return fmt.Errorf("song %d: %w", songID, ErrConflict)
		}

		if err := loadSongChildren(ctx, tx, &previous); err != nil {
			return err
		}

		audioFile, err := resolveSongAudio(ctx, tx, draft.Media_ID, draft.Audio_File)
		if err != nil {
			return err
		}

		now := timeNow()
		newComments := draftComments(songID, draft.Comments, now)

		next := previous
		next.Title = title
		next.Status = draft.Status
		next.Category = strings.TrimSpace(draft.Category)
		next.Lead_Singer = draft.Lead_Singer
		next.Writer = draft.Writer
		next.Conductor = draft.Conductor
		next.Song_Key = draft.Song_Key
		next.Tempo = draft.Tempo
		next.Lead_Keyboardist = draft.Lead_Keyboardist
		next.Lead_Guitarist = draft.Lead_Guitarist
		next.Drummer = draft.Drummer
		next.Lyrics = draft.Lyrics
		next.Solfas = draft.Solfas
		next.Audio_File = audioFile
		next.Media_ID = draft.Media_ID
		next.Comments = append(append([]models.Comment{}, previous.Comments...), newComments...)

		entries := history.Compose(&previous, history.Draft{Song: next, Rehearsals: draft.Rehearsal_Count}, now)

		_, err = tx.Update("songs").
			Set(goqu.Record{
				"title":            next.Title,
				"status":           next.Status,
				"category":         next.Category,
				"lead_singer":      next.Lead_Singer,
				"writer":           next.Writer,
				"conductor":        next.Conductor,
				"song_key":         next.Song_Key,
				"tempo":            next.Tempo,
				"lead_keyboardist": next.Lead_Keyboardist,
				"lead_guitarist":   next.Lead_Guitarist,
				"drummer":          next.Drummer,
				"lyrics":           next.Lyrics,
				"solfas":           next.Solfas,
				"audio_file":       next.Audio_File,
				"media_id":         next.Media_ID,
				"datetime_update":  goqu.L("NOW()"),
			}).
			Where(goqu.C("song_id").Eq(songID)).
			Returning(goqu.Star()).
			Executor().
			ScanStructContext(ctx, &saved)
		if err != nil {
			if isUniqueViolation(err) {
				return validationError("a song titled %q already exists on this page", title)
			}
			return fmt.Errorf("failed to update song: %w", err)
		}

		insertedComments := []models.Comment{}
		if len(newComments) > 0 {
			err = tx.Insert("comments").
				Rows(newComments).
				Returning(goqu.Star()).
				Executor().
				ScanStructsContext(ctx, &insertedComments)
			if err != nil {
				return fmt.Errorf("failed to save comments: %w", err)
			}
		}

		insertedHistory := []models.HistoryEntry{}
		if len(entries) > 0 {
			err = tx.Insert("song_history").
				Rows(entries).
				Returning(goqu.Star()).
				Executor().
				ScanStructsContext(ctx, &insertedHistory)
			if err != nil {
				return fmt.Errorf("failed to save song history: %w", err)
			}
		}

		saved.Comments = append(previous.Comments, insertedComments...)
		saved.History = append(previous.History, insertedHistory...)
		return nil
	})
	if err != nil {
		return models.PraiseNightSong{}, err
	}

	return saved, nil
}

// DeleteSong removes a song with its comments and history.
func DeleteSong(ctx context.Context, songID int) error {
	result, err := initializers.DB.Delete("songs").
		Where(goqu.C("song_id").Eq(songID)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return notFoundError("song", songID)
	}
	return nil
}

// draftComments returns the comments of a draft that are not stored yet.
func draftComments(songID int, comments []models.Comment, now time.Time) []models.Comment {
	var fresh []models.Comment
	for _, comment := range comments {
		if comment.Comment_ID != 0 || strings.TrimSpace(comment.Text) == "" {
			continue
		}
		if comment.Date.IsZero() {
			comment.Date = now
		}
		if comment.Author == "" {
			comment.Author = models.DefaultCommentAuthor
		}
		comment.Song_ID = songID
		comment.Text = strings.TrimSpace(comment.Text)
		fresh = append(fresh, comment)
	}
	return fresh
}

func loadSongChildren(ctx context.Context, q queryer, song *models.PraiseNightSong) error {
	var comments []models.Comment
	err := q.From("comments").
		Where(goqu.C("song_id").Eq(song.Song_ID)).
		Order(goqu.C("date").Asc(), goqu.C("comment_id").Asc()).
		ScanStructsContext(ctx, &comments)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	var entries []models.HistoryEntry
	err = q.From("song_history").
		Where(goqu.C("song_id").Eq(song.Song_ID)).
		Order(goqu.C("date").Asc(), goqu.C("history_id").Asc()).
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return fmt.Errorf("failed to fetch song history: %w", err)
	}

	song.Comments = comments
	if song.Comments == nil {
		song.Comments = []models.Comment{}
	}
	song.History = entries
	if song.History == nil {
		song.History = []models.HistoryEntry{}
	}
	return nil
}

// resolveSongAudio returns the audio URL a song carries: the URL of the
// selected library file when mediaID is set, the manual URL otherwise.
func resolveSongAudio(ctx context.Context, q queryer, mediaID *int, manualURL string) (string, error) {
	libraryURL := ""
	if mediaID != nil {
		var media models.MediaFile
		found, err := q.From("media").
			Where(goqu.C("media_id").Eq(*mediaID)).
			ScanStructContext(ctx, &media)
		if err != nil {
			return "", fmt.Errorf("failed to fetch media file: %w", err)
		}
		if !found {
			return "", validationError("media file %d does not exist", *mediaID)
		}
		libraryURL = media.URL
	}
	return history.ResolveAudioURL(libraryURL, strings.TrimSpace(manualURL)), nil
}

func ensurePageExists(ctx context.Context, q queryer, pageID int) error {
	var id int
	found, err := q.From("pages").
		Select("page_id").
		Where(goqu.C("page_id").Eq(pageID)).
		ScanValContext(ctx, &id)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}
	if !found {
		return notFoundError("page", pageID)
	}
	return nil
}
