package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/models"
	"github.com/doug-martin/goqu/v9"
)

// Defaults for categories that exist only as a song's category string.
const (
	TagIDPrefix = "song-cat-"
	TagIcon     = "music"
	TagColor    = "#9CA3AF"
)

func GetStoredCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := initializers.DB.From("categories").
		Order(goqu.C("name").Asc()).
		ScanStructsContext(ctx, &categories)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// GetAllCategories returns stored categories plus a tag for every song
// category string without a stored row.
func GetAllCategories(ctx context.Context) ([]models.CategoryView, error) {
	stored, err := GetStoredCategories(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	err = initializers.DB.From("songs").
		Select("category").
		Distinct().
		Where(goqu.C("category").Neq("")).
		ScanValsContext(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch song categories: %w", err)
	}

	return CombineCategories(stored, names), nil
}

// CombineCategories merges stored categories with song category strings,
// deduplicated by name. Stored categories come first in their given order,
// followed by tags sorted by name.
func CombineCategories(stored []models.Category, songCategories []string) []models.CategoryView {
	combined := make([]models.CategoryView, 0, len(stored)+len(songCategories))
	seen := make(map[string]bool, len(stored))

	for _, category := range stored {
		created, updated := category.Datetime_Create, category.Datetime_Update
		combined = append(combined, models.CategoryView{
			ID:          strconv.Itoa(category.Category_ID),
			Name:        category.Name,
			Description: category.Description,
			Icon:        category.Icon,
			Color:       category.Color,
			IsActive:    category.Is_Active,
			CreatedAt:   &created,
			UpdatedAt:   &updated,
		})
		seen[category.Name] = true
	}

	var tags []string
	for _, name := range songCategories {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	sort.Strings(tags)

	for _, name := range tags {
		combined = append(combined, models.CategoryView{
			ID:       TagIDPrefix + name,
			Name:     name,
			Icon:     TagIcon,
			Color:    TagColor,
			IsActive: true,
			IsTag:    true,
		})
	}
	return combined
}

func CreateCategory(ctx context.Context, body models.CategoryCreate) (models.Category, error) {
	var category models.Category

	name := strings.TrimSpace(body.Name)
	if name == "" {
		return category, validationError("category name is required")
	}

	row := models.Category{
		Name:        name,
		Description: body.Description,
		Icon:        body.Icon,
		Color:       body.Color,
		Is_Active:   true,
	}
	if row.Icon == "" {
		row.Icon = TagIcon
	}
	if row.Color == "" {
		row.Color = TagColor
	}
	if body.Is_Active != nil {
		row.Is_Active = *body.Is_Active
	}

	_, err := initializers.DB.Insert("categories").
		Rows(row).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &category)
	if err != nil {
		if isUniqueViolation(err) {
			return category, validationError("category %q already exists", name)
		}
		return category, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory applies the non-nil fields of body. A rename carries the
// songs of the old name over to the new one.
func UpdateCategory(ctx context.Context, categoryID int, body models.CategoryUpdate) (models.Category, error) {
	var updated models.Category

	record := goqu.Record{"datetime_update": goqu.L("NOW()")}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return updated, validationError("category name cannot be empty")
		}
		record["name"] = name
	}
	if body.Description != nil {
		record["description"] = *body.Description
	}
	if body.Icon != nil {
		record["icon"] = *body.Icon
	}
	if body.Color != nil {
		record["color"] = *body.Color
	}
	if body.Is_Active != nil {
		record["is_active"] = *body.Is_Active
	}

	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var current models.Category
		found, err := tx.From("categories").
			Where(goqu.C("category_id").Eq(categoryID)).
			ScanStructContext(ctx, &current)
		if err != nil {
			return fmt.Errorf("failed to fetch category: %w", err)
		}
		if !found {
			return notFoundError("category", categoryID)
		}

		_, err = tx.Update("categories").
			Set(record).
			Where(goqu.C("category_id").Eq(categoryID)).
			Returning(goqu.Star()).
			Executor().
			ScanStructContext(ctx, &updated)
		if err != nil {
			if isUniqueViolation(err) {
				return validationError("category %q already exists", record["name"])
			}
			return fmt.Errorf("failed to update category: %w", err)
		}

		if updated.Name != current.Name {
			_, err = tx.Update("songs").
				Set(goqu.Record{"category": updated.Name, "datetime_update": goqu.L("NOW()")}).
				Where(goqu.C("category").Eq(current.Name)).
				Executor().
				ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("failed to rename song categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return updated, nil
}

// DeleteCategory moves the category's songs to "Uncategorized" and then
// removes the row.
func DeleteCategory(ctx context.Context, categoryID int) error {
	return initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var name string
		found, err := tx.From("categories").
			Select("name").
			Where(goqu.C("category_id").Eq(categoryID)).
			ScanValContext(ctx, &name)
		if err != nil {
			return fmt.Errorf("failed to fetch category: %w", err)
		}
		if !found {
			return notFoundError("category", categoryID)
		}

		if err := reassignSongs(ctx, tx, name); err != nil {
			return err
		}

		_, err = tx.Delete("categories").
			Where(goqu.C("category_id").Eq(categoryID)).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

// DeleteCategoryTag removes a song-only category by moving its songs to
// "Uncategorized".
func DeleteCategoryTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == models.UncategorizedCategory {
		return validationError("category tag %q cannot be deleted", name)
	}
	return initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		return reassignSongs(ctx, tx, name)
	})
}

func reassignSongs(ctx context.Context, tx *goqu.TxDatabase, category string) error {
	_, err := tx.Update("songs").
		Set(goqu.Record{"category": models.UncategorizedCategory, "datetime_update": goqu.L("NOW()")}).
		Where(goqu.C("category").Eq(category)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to reassign songs of category %q: %w", category, err)
	}
	return nil
}

// CategoryHeardCount counts the heard songs of category among songs.
func CategoryHeardCount(songs []models.PraiseNightSong, category string) int {
	return countSongs(songs, category, models.SongStatusHeard)
}

// CategoryUnheardCount counts the unheard songs of category among songs.
func CategoryUnheardCount(songs []models.PraiseNightSong, category string) int {
	return countSongs(songs, category, models.SongStatusUnheard)
}

func countSongs(songs []models.PraiseNightSong, category, status string) int {
	count := 0
	for _, song := range songs {
		if song.Category == category && song.Status == status {
			count++
		}
	}
	return count
}

// CategoryStats lists heard/unheard counts per category present in songs,
// sorted by category name.
func CategoryStats(songs []models.PraiseNightSong) []models.CategoryStats {
	var names []string
	seen := make(map[string]bool)
	for _, song := range songs {
		if !seen[song.Category] {
			seen[song.Category] = true
			names = append(names, song.Category)
		}
	}
	sort.Strings(names)

	stats := make([]models.CategoryStats, 0, len(names))
	for _, name := range names {
		stats = append(stats, models.CategoryStats{
			Name:    name,
			Heard:   CategoryHeardCount(songs, name),
			Unheard: CategoryUnheardCount(songs, name),
		})
	}
	return stats
}

// GetPageCategoryStats returns the per-category counts of a page and whether
// the page has no songs at all.
func GetPageCategoryStats(ctx context.Context, pageID int) ([]models.CategoryStats, bool, error) {
	songs, err := GetSongsByPage(ctx, pageID)
	if err != nil {
		return nil, false, err
	}
	return CategoryStats(songs), len(songs) == 0, nil
}
