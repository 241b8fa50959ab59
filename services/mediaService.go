package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxUploadBytes caps an upload when MAX_UPLOAD_MB is unset.
const DefaultMaxUploadBytes int64 = 50 << 20

// MediaUpload is one file to add to the media library.
type MediaUpload struct {
	Name   string
	Folder string
	Size   int64
	Body   io.Reader
}

func ListMedia(ctx context.Context) ([]models.MediaFile, error) {
	files := []models.MediaFile{}
	err := initializers.DB.From("media").
		Order(goqu.C("uploaded_at").Desc(), goqu.C("media_id").Desc()).
		ScanStructsContext(ctx, &files)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	return files, nil
}

func GetMedia(ctx context.Context, mediaID int) (models.MediaFile, error) {
	var file models.MediaFile
	found, err := initializers.DB.From("media").
		Where(goqu.C("media_id").Eq(mediaID)).
		ScanStructContext(ctx, &file)
	if err != nil {
		return file, fmt.Errorf("failed to fetch media file: %w", err)
	}
	if !found {
		return file, notFoundError("media file", mediaID)
	}
	return file, nil
}

// UploadMedia stores the bytes of upload and records the file. If the row
// cannot be written the stored object is removed again.
func UploadMedia(ctx context.Context, upload MediaUpload) (models.MediaFile, error) {
	var file models.MediaFile

	store := GetObjectStore()
	if store == nil {
		return file, fmt.Errorf("%w: storage is not configured", ErrStorage)
	}

	name := strings.TrimSpace(upload.Name)
	if name == "" {
		return file, validationError("file name is required")
	}

	maxBytes := MaxUploadBytes()
	data, err := io.ReadAll(io.LimitReader(upload.Body, maxBytes+1))
	if err != nil {
		return file, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return file, validationError("file is larger than %d MB", maxBytes>>20)
	}
	if len(data) == 0 {
		return file, validationError("file is empty")
	}

	mimeType := normalizeMimeType(mimetype.Detect(data).String())
	key := StorageKey(upload.Folder, name, timeNow())

	url, err := store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType)
	if err != nil {
		return file, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	row := models.MediaFile{
		Name:         name,
		URL:          url,
		Type:         MediaTypeFor(mimeType),
		Size:         int64(len(data)),
		Storage_Path: &key,
	}
	if folder := strings.TrimSpace(upload.Folder); folder != "" {
		row.Folder = &folder
	}

	_, err = initializers.DB.Insert("media").
		Rows(row).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &file)
	if err != nil {
		// the upload may have failed because ctx was cancelled
		if delErr := store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			log.Printf("Failed to remove orphaned object %s: %v", key, delErr)
		}
		return models.MediaFile{}, fmt.Errorf("failed to record media file: %w", err)
	}

	return file, nil
}

// DeleteMedia removes the stored object first and the row only after that
// succeeded, so a storage failure leaves the file listed.
func DeleteMedia(ctx context.Context, mediaID int) error {
	file, err := GetMedia(ctx, mediaID)
	if err != nil {
		return err
	}

	if file.Storage_Path != nil && *file.Storage_Path != "" {
		store := GetObjectStore()
		if store == nil {
			return fmt.Errorf("%w: storage is not configured", ErrStorage)
		}
		if err := store.Delete(ctx, *file.Storage_Path); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	_, err = initializers.DB.Delete("media").
		Where(goqu.C("media_id").Eq(mediaID)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	return nil
}

// MediaTypeFor maps a MIME type to a media library type.
func MediaTypeFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return models.MediaTypeAudio
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaTypeVideo
	}
	return models.MediaTypeDocument
}

// MaxUploadBytes reads MAX_UPLOAD_MB.
func MaxUploadBytes() int64 {
	mb := initializers.GetIntEnvOrDefault("MAX_UPLOAD_MB", 0)
	if mb <= 0 {
		return DefaultMaxUploadBytes
	}
	return int64(mb) << 20
}

func normalizeMimeType(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if separator := strings.Index(normalized, ";"); separator >= 0 {
		normalized = strings.TrimSpace(normalized[:separator])
	}
	return normalized
}
