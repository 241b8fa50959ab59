package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PraiseNight/initializers"
	"github.com/doug-martin/goqu/v9"
)

var (
	pageColumns     = []string{"page_id", "name", "date", "location", "category", "banner_image", "countdown_days", "countdown_hours", "countdown_minutes", "countdown_seconds", "datetime_create", "datetime_update"}
	songColumns     = []string{"song_id", "page_id", "title", "status", "category", "lead_singer", "writer", "conductor", "song_key", "tempo", "lead_keyboardist", "lead_guitarist", "drummer", "lyrics", "solfas", "audio_file", "media_id", "datetime_create", "datetime_update"}
	commentColumns  = []string{"comment_id", "song_id", "text", "date", "author"}
	historyColumns  = []string{"history_id", "song_id", "type", "content", "date", "version"}
	categoryColumns = []string{"category_id", "name", "description", "icon", "color", "is_active", "datetime_create", "datetime_update"}
	mediaColumns    = []string{"media_id", "name", "url", "type", "size", "folder", "storage_path", "uploaded_at"}
)

var fixedNow = time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)

// setupTestDB swaps the global database for a sqlmock-backed goqu database
// and pins the service clock.
func setupTestDB(t *testing.T) sqlmock.Sqlmock {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	originalDB := initializers.DB
	originalNow := timeNow
	initializers.DB = goqu.New("postgres", db)
	timeNow = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		db.Close()
		initializers.DB = originalDB
		timeNow = originalNow
	})
	return mock
}

func pageRow(rows *sqlmock.Rows, id int, name string) *sqlmock.Rows {
	return rows.AddRow(id, name, "2026-03-20", "Main Auditorium", "ongoing", nil, 6, 0, 0, 0, fixedNow, fixedNow)
}

func songRow(rows *sqlmock.Rows, id, pageID int, title, status, category string) *sqlmock.Rows {
	return rows.AddRow(id, pageID, title, status, category, "Ada", "", "", "C", "", "", "", "", "<p>lyrics</p>", "", "", nil, fixedNow, fixedNow)
}
