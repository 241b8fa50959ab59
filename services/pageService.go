package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// queryer is satisfied by both *goqu.Database and *goqu.TxDatabase.
type queryer interface {
	From(from ...interface{}) *goqu.SelectDataset
}

// PageFetcher loads the assembled page tree from the database.
type PageFetcher struct{}

func (PageFetcher) GetAllPages(ctx context.Context) ([]models.PraiseNight, error) {
	return GetAllPages(ctx)
}

// GetAllPages returns every page with its songs, and every song with its
// comments and history.
func GetAllPages(ctx context.Context) ([]models.PraiseNight, error) {
	var pages []models.PraiseNight
	err := initializers.DB.From("pages").
		Order(goqu.C("page_id").Asc()).
		ScanStructsContext(ctx, &pages)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pages: %w", err)
	}

	songs, err := loadSongs(ctx, initializers.DB, nil)
	if err != nil {
		return nil, err
	}

	return assemblePages(pages, songs), nil
}

// GetPage returns one assembled page.
func GetPage(ctx context.Context, pageID int) (models.PraiseNight, error) {
	var page models.PraiseNight
	found, err := initializers.DB.From("pages").
		Where(goqu.C("page_id").Eq(pageID)).
		ScanStructContext(ctx, &page)
	if err != nil {
		return page, fmt.Errorf("failed to fetch page: %w", err)
	}
	if !found {
		return page, notFoundError("page", pageID)
	}

	songs, err := loadSongs(ctx, initializers.DB, goqu.C("page_id").Eq(pageID))
	if err != nil {
		return page, err
	}

	return assemblePages([]models.PraiseNight{page}, songs)[0], nil
}

func CreatePage(ctx context.Context, body models.PraiseNightCreate) (models.PraiseNight, error) {
	var page models.PraiseNight

	if strings.TrimSpace(body.Name) == "" {
		return page, validationError("page name is required")
	}
	if body.Category == "" {
		body.Category = models.PageCategoryUnassigned
	}
	if !models.IsPageCategory(body.Category) {
		return page, validationError("unknown page category %q", body.Category)
	}

	row := models.PraiseNight{
		Name:              strings.TrimSpace(body.Name),
		Date:              body.Date,
		Location:          body.Location,
		Category:          body.Category,
		Banner_Image:      body.Banner_Image,
		Countdown_Days:    body.Countdown_Days,
		Countdown_Hours:   body.Countdown_Hours,
		Countdown_Minutes: body.Countdown_Minutes,
		Countdown_Seconds: body.Countdown_Seconds,
	}

	_, err := initializers.DB.Insert("pages").
		Rows(row).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &page)
	if err != nil {
		return page, fmt.Errorf("failed to create page: %w", err)
	}

	page.Songs = []models.PraiseNightSong{}
	return page, nil
}

// UpdatePage applies the non-nil fields of body and returns the assembled page.
func UpdatePage(ctx context.Context, pageID int, body models.PraiseNightUpdate) (models.PraiseNight, error) {
	record := goqu.Record{"datetime_update": goqu.L("NOW()")}

	if body.Name != nil {
		if strings.TrimSpace(*body.Name) == "" {
			return models.PraiseNight{}, validationError("page name cannot be empty")
		}
		record["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Category != nil {
		if !models.IsPageCategory(*body.Category) {
			return models.PraiseNight{}, validationError("unknown page category %q", *body.Category)
		}
		record["category"] = *body.Category
	}
	if body.Date != nil {
		record["date"] = *body.Date
	}
	if body.Location != nil {
		record["location"] = *body.Location
	}
	if body.Banner_Image != nil {
		record["banner_image"] = *body.Banner_Image
	}
	if body.Countdown_Days != nil {
		record["countdown_days"] = *body.Countdown_Days
	}
	if body.Countdown_Hours != nil {
		record["countdown_hours"] = *body.Countdown_Hours
	}
	if body.Countdown_Minutes != nil {
		record["countdown_minutes"] = *body.Countdown_Minutes
	}
	if body.Countdown_Seconds != nil {
		record["countdown_seconds"] = *body.Countdown_Seconds
	}

	result, err := initializers.DB.Update("pages").
		Set(record).
		Where(goqu.C("page_id").Eq(pageID)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return models.PraiseNight{}, fmt.Errorf("failed to update page: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.PraiseNight{}, notFoundError("page", pageID)
	}

	return GetPage(ctx, pageID)
}

// DeletePage removes a page; its songs, comments and history go with it.
func DeletePage(ctx context.Context, pageID int) error {
	result, err := initializers.DB.Delete("pages").
		Where(goqu.C("page_id").Eq(pageID)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return notFoundError("page", pageID)
	}
	return nil
}

// loadSongs fetches songs matching filter (all songs when nil) together with
// their comments and history.
func loadSongs(ctx context.Context, q queryer, filter exp.Expression) ([]models.PraiseNightSong, error) {
	query := q.From("songs").Order(goqu.C("song_id").Asc())
	if filter != nil {
		query = query.Where(filter)
	}

	var songs []models.PraiseNightSong
	if err := query.ScanStructsContext(ctx, &songs); err != nil {
		return nil, fmt.Errorf("failed to fetch songs: %w", err)
	}
	if len(songs) == 0 {
		return songs, nil
	}

	songIDs := make([]int, len(songs))
	for i, song := range songs {
		songIDs[i] = song.Song_ID
	}

	var comments []models.Comment
	err := q.From("comments").
		Where(goqu.C("song_id").In(songIDs)).
		Order(goqu.C("date").Asc(), goqu.C("comment_id").Asc()).
		ScanStructsContext(ctx, &comments)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	var entries []models.HistoryEntry
	err = q.From("song_history").
		Where(goqu.C("song_id").In(songIDs)).
		Order(goqu.C("date").Asc(), goqu.C("history_id").Asc()).
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch song history: %w", err)
	}

	return attachSongChildren(songs, comments, entries), nil
}

func attachSongChildren(songs []models.PraiseNightSong, comments []models.Comment, entries []models.HistoryEntry) []models.PraiseNightSong {
	commentsBySong := make(map[int][]models.Comment)
	for _, comment := range comments {
		commentsBySong[comment.Song_ID] = append(commentsBySong[comment.Song_ID], comment)
	}
	historyBySong := make(map[int][]models.HistoryEntry)
	for _, entry := range entries {
		historyBySong[entry.Song_ID] = append(historyBySong[entry.Song_ID], entry)
	}

	for i := range songs {
		songs[i].Comments = commentsBySong[songs[i].Song_ID]
		if songs[i].Comments == nil {
			songs[i].Comments = []models.Comment{}
		}
		songs[i].History = historyBySong[songs[i].Song_ID]
		if songs[i].History == nil {
			songs[i].History = []models.HistoryEntry{}
		}
	}
	return songs
}

func assemblePages(pages []models.PraiseNight, songs []models.PraiseNightSong) []models.PraiseNight {
	songsByPage := make(map[int][]models.PraiseNightSong)
	for _, song := range songs {
		songsByPage[song.Page_ID] = append(songsByPage[song.Page_ID], song)
	}

	for i := range pages {
		pages[i].Songs = songsByPage[pages[i].Page_ID]
		if pages[i].Songs == nil {
			pages[i].Songs = []models.PraiseNightSong{}
		}
	}
	if pages == nil {
		pages = []models.PraiseNight{}
	}
	return pages
}
