package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PraiseNight/history"
	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

func GetCommentsBySong(ctx context.Context, songID int) ([]models.Comment, error) {
	if err := ensureSongExists(ctx, initializers.DB, songID); err != nil {
		return nil, err
	}

	comments := []models.Comment{}
	err := initializers.DB.From("comments").
		Where(goqu.C("song_id").Eq(songID)).
		Order(goqu.C("date").Asc(), goqu.C("comment_id").Asc()).
		ScanStructsContext(ctx, &comments)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, nil
}

// CreateComment stores a pastor comment together with its comment history
// entry, then emails the choir director in the background.
func CreateComment(ctx context.Context, songID int, body models.CommentCreate) (models.Comment, error) {
	var comment models.Comment

	text := strings.TrimSpace(body.Text)
	if text == "" {
		return comment, validationError("comment text is required")
	}
	author := strings.TrimSpace(body.Author)
	if author == "" {
		author = models.DefaultCommentAuthor
	}

	var songTitle string
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		found, err := tx.From("songs").
			Select("title").
			Where(goqu.C("song_id").Eq(songID)).
			ForUpdate(exp.Wait).
			ScanValContext(ctx, &songTitle)
		if err != nil {
			return fmt.Errorf("failed to fetch song: %w", err)
		}
		if !found {
			return notFoundError("song", songID)
		}

		var existing []models.HistoryEntry
		err = tx.From("song_history").
			Where(
				goqu.C("song_id").Eq(songID),
				goqu.C("type").Eq(models.HistoryTypeComment),
			).
			ScanStructsContext(ctx, &existing)
		if err != nil {
			return fmt.Errorf("failed to fetch song history: %w", err)
		}

		now := timeNow()
		row := models.Comment{Song_ID: songID, Text: text, Date: now, Author: author}
		_, err = tx.Insert("comments").
			Rows(row).
			Returning(goqu.Star()).
			Executor().
			ScanStructContext(ctx, &comment)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		entry := models.HistoryEntry{
			Song_ID: songID,
			Type:    models.HistoryTypeComment,
			Content: text,
			Date:    now,
			Version: history.NextVersion(existing, models.HistoryTypeComment),
		}
		_, err = tx.Insert("song_history").
			Rows(entry).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to save song history: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}

	if mailer := GetEmailService(); mailer != nil {
		go func(title string, c models.Comment) {
			if err := mailer.SendCommentNotification(title, c); err != nil {
				log.Printf("Comment %d saved but email failed: %v", c.Comment_ID, err)
			}
		}(songTitle, comment)
	}

	return comment, nil
}

// DeleteComment removes a comment. Its history entries are kept.
func DeleteComment(ctx context.Context, songID, commentID int) error {
	result, err := initializers.DB.Delete("comments").
		Where(
			goqu.C("comment_id").Eq(commentID),
			goqu.C("song_id").Eq(songID),
		).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return notFoundError("comment", commentID)
	}
	return nil
}

// GetHistoryBySong returns a song's history, oldest first.
func GetHistoryBySong(ctx context.Context, songID int) ([]models.HistoryEntry, error) {
	if err := ensureSongExists(ctx, initializers.DB, songID); err != nil {
		return nil, err
	}

	entries := []models.HistoryEntry{}
	err := initializers.DB.From("song_history").
		Where(goqu.C("song_id").Eq(songID)).
		Order(goqu.C("date").Asc(), goqu.C("history_id").Asc()).
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch song history: %w", err)
	}
	return entries, nil
}

func ensureSongExists(ctx context.Context, q queryer, songID int) error {
	var id int
	found, err := q.From("songs").
		Select("song_id").
		Where(goqu.C("song_id").Eq(songID)).
		ScanValContext(ctx, &id)
	if err != nil {
		return fmt.Errorf("failed to fetch song: %w", err)
	}
	if !found {
		return notFoundError("song", songID)
	}
	return nil
}
