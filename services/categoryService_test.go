package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PraiseNight/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCategories(t *testing.T) {
	stored := []models.Category{
		{Category_ID: 1, Name: "Worship", Icon: "star", Color: "#F59E0B", Is_Active: true},
		{Category_ID: 2, Name: "Hymns", Icon: "book", Color: "#10B981", Is_Active: false},
	}

	combined := CombineCategories(stored, []string{"Hymns", "Praise", " ", "Medley", "Praise"})

	require.Len(t, combined, 4)
	assert.Equal(t, "1", combined[0].ID)
	assert.False(t, combined[0].IsTag)
	assert.False(t, combined[1].IsActive)

	assert.Equal(t, "song-cat-Medley", combined[2].ID)
	assert.Equal(t, "Medley", combined[2].Name)
	assert.True(t, combined[2].IsTag)
	assert.Equal(t, TagIcon, combined[2].Icon)
	assert.Equal(t, TagColor, combined[2].Color)
	assert.Equal(t, "song-cat-Praise", combined[3].ID)
}

func TestDeleteCategoryReassignsSongs(t *testing.T) {
	mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "name" FROM "categories"`).WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Worship"))
	mock.ExpectExec(`UPDATE "songs" SET "category"='Uncategorized'.* WHERE \("category" = 'Worship'\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "categories" WHERE \("category_id" = 4\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, DeleteCategory(context.Background(), 4))

	mock.ExpectQuery(`SELECT .* FROM "categories"`).WillReturnRows(sqlmock.NewRows(categoryColumns))
	mock.ExpectQuery(`SELECT DISTINCT "category" FROM "songs"`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Uncategorized").AddRow("Hymns"))

	combined, err := GetAllCategories(context.Background())
	require.NoError(t, err)
	for _, category := range combined {
		assert.NotEqual(t, "Worship", category.Name)
	}
	assert.Len(t, combined, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryNotFound(t *testing.T) {
	mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "name" FROM "categories"`).WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectRollback()

	assert.ErrorIs(t, DeleteCategory(context.Background(), 4), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryTag(t *testing.T) {
	mock := setupTestDB(t)

	assert.ErrorIs(t, DeleteCategoryTag(context.Background(), models.UncategorizedCategory), ErrValidation)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "songs" SET "category"='Uncategorized'.* WHERE \("category" = 'Medley'\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, DeleteCategoryTag(context.Background(), "Medley"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCategoryRenameCascades(t *testing.T) {
	mock := setupTestDB(t)
	newName := "Praise & Worship"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "categories"`).WillReturnRows(
		sqlmock.NewRows(categoryColumns).AddRow(4, "Worship", "", "music", "#9CA3AF", true, fixedNow, fixedNow))
	mock.ExpectQuery(`UPDATE "categories" SET .* RETURNING \*`).WillReturnRows(
		sqlmock.NewRows(categoryColumns).AddRow(4, newName, "", "music", "#9CA3AF", true, fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE "songs" SET "category"='Praise & Worship'.* WHERE \("category" = 'Worship'\)`).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	category, err := UpdateCategory(context.Background(), 4, models.CategoryUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, category.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryDefaults(t *testing.T) {
	mock := setupTestDB(t)
	mock.ExpectQuery(`INSERT INTO "categories" .*'music'`).WillReturnRows(
		sqlmock.NewRows(categoryColumns).AddRow(9, "Medley", "", "music", "#9CA3AF", true, fixedNow, fixedNow))

	category, err := CreateCategory(context.Background(), models.CategoryCreate{Name: "Medley"})
	require.NoError(t, err)
	assert.True(t, category.Is_Active)

	_, err = CreateCategory(context.Background(), models.CategoryCreate{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryCounts(t *testing.T) {
	assert.Equal(t, 0, CategoryHeardCount(nil, "Hymns"))
	assert.Equal(t, 0, CategoryUnheardCount(nil, "Hymns"))
	assert.Empty(t, CategoryStats(nil))

	songs := []models.PraiseNightSong{
		{Title: "Grace", Category: "Hymns", Status: models.SongStatusUnheard},
		{Title: "Glory", Category: "Hymns", Status: models.SongStatusHeard},
		{Title: "Rise", Category: "Worship", Status: models.SongStatusUnheard},
	}
	assert.Equal(t, 1, CategoryHeardCount(songs, "Hymns"))
	assert.Equal(t, 1, CategoryUnheardCount(songs, "Hymns"))

	stats := CategoryStats(songs)
	require.Len(t, stats, 2)
	assert.Equal(t, models.CategoryStats{Name: "Hymns", Heard: 1, Unheard: 1}, stats[0])
	assert.Equal(t, models.CategoryStats{Name: "Worship", Heard: 0, Unheard: 1}, stats[1])
}

func TestGetPageCategoryStatsEmptyPage(t *testing.T) {
	mock := setupTestDB(t)
	mock.ExpectQuery(`SELECT "page_id" FROM "pages"`).WillReturnRows(sqlmock.NewRows([]string{"page_id"}).AddRow(30))
	mock.ExpectQuery(`SELECT .* FROM "songs"`).WillReturnRows(sqlmock.NewRows(songColumns))

	stats, empty, err := GetPageCategoryStats(context.Background(), 30)
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Empty(t, stats)
}
