package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PraiseNight/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	commentColumns = []string{"comment_id", "song_id", "text", "date", "author"}
	historyColumns = []string{"history_id", "song_id", "type", "content", "date", "version"}
)

func mockSongRows(title, status string, updated time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(songColumns).
		AddRow(1, 30, title, status, "Hymns", "Ada", "", "", "C", "", "", "", "", "", "", "", nil, updated, updated)
}

func TestAddSongThenListPageSongs(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT "page_id" FROM "pages"`).WillReturnRows(sqlmock.NewRows([]string{"page_id"}).AddRow(30))
	mock.ExpectQuery(`INSERT INTO "songs"`).WillReturnRows(mockSongRows("Grace", models.SongStatusUnheard, now))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	jsonRequest(c, "POST", "/pages/30/songs", map[string]interface{}{"title": "Grace", "category": "Hymns"})
	c.Params = gin.Params{{Key: "page_id", Value: "30"}}

	CreateSong(c)

	require.Equal(t, http.StatusCreated, w.Code)

	mock.ExpectQuery(`SELECT "page_id" FROM "pages"`).WillReturnRows(sqlmock.NewRows([]string{"page_id"}).AddRow(30))
	mock.ExpectQuery(`SELECT .* FROM "songs"`).WillReturnRows(mockSongRows("Grace", models.SongStatusUnheard, now))
	mock.ExpectQuery(`SELECT .* FROM "comments"`).WillReturnRows(sqlmock.NewRows(commentColumns))
	mock.ExpectQuery(`SELECT .* FROM "song_history"`).WillReturnRows(sqlmock.NewRows(historyColumns))

	c, w = SetupTestContext()
	SetAuthenticatedUser(c, MockMember())
	c.Params = gin.Params{{Key: "page_id", Value: "30"}}

	GetPageSongs(c)

	require.Equal(t, http.StatusOK, w.Code)
	var songs []models.PraiseNightSong
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &songs))
	require.Len(t, songs, 1)
	assert.Equal(t, "Grace", songs[0].Title)
	assert.Equal(t, models.SongStatusUnheard, songs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSongRequiresTitle(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	jsonRequest(c, "POST", "/pages/30/songs", map[string]interface{}{"category": "Hymns"})
	c.Params = gin.Params{{Key: "page_id", Value: "30"}}

	CreateSong(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSongHandlersRejectBadIDs(t *testing.T) {
	handlers := map[string]gin.HandlerFunc{
		"GetPageSongs":   GetPageSongs,
		"GetSong":        GetSong,
		"DeleteSong":     DeleteSong,
		"GetSongHistory": GetSongHistory,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockAdmin())
			c.Params = gin.Params{{Key: "page_id", Value: "abc"}, {Key: "song_id", Value: "-1"}}

			handler(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateSongStaleDraftConflicts(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	stored := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)
	stale := stored.Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "songs" .* FOR UPDATE`).WillReturnRows(mockSongRows("Grace", models.SongStatusUnheard, stored))
	mock.ExpectRollback()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	jsonRequest(c, "PUT", "/songs/1", map[string]interface{}{"title": "Grace", "lyrics": "<p>new</p>", "lastKnownUpdate": stale})
	c.Params = gin.Params{{Key: "song_id", Value: "1"}}

	UpdateSong(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSongMissingSong(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "songs" .* FOR UPDATE`).WillReturnRows(sqlmock.NewRows(songColumns))
	mock.ExpectRollback()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	jsonRequest(c, "PUT", "/songs/9", map[string]interface{}{"title": "Grace"})
	c.Params = gin.Params{{Key: "song_id", Value: "9"}}

	UpdateSong(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSongHistory(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT "song_id" FROM "songs"`).WillReturnRows(sqlmock.NewRows([]string{"song_id"}).AddRow(1))
	mock.ExpectQuery(`SELECT .* FROM "song_history"`).WillReturnRows(sqlmock.NewRows(historyColumns).
		AddRow(1, 1, models.HistoryTypeLyrics, "<p>Amazing grace</p>", now, 1).
		AddRow(2, 1, models.HistoryTypeComment, "Slow the intro", now, 1))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockMember())
	c.Params = gin.Params{{Key: "song_id", Value: "1"}}

	GetSongHistory(c)

	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, models.HistoryTypeComment, entries[1].Type)
}

func TestDeleteSongNotFound(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM "songs"`).WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	c.Params = gin.Params{{Key: "song_id", Value: "5"}}

	DeleteSong(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
