package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PraiseNight/models"
	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mediaColumns = []string{"media_id", "name", "url", "type", "size", "folder", "storage_path", "uploaded_at"}

type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func useStore(t *testing.T, store services.ObjectStore) {
	original := services.GetObjectStore()
	services.SetObjectStore(store)
	t.Cleanup(func() { services.SetObjectStore(original) })
}

func multipartRequest(t *testing.T, c *gin.Context, filename, folder string, content []byte) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if folder != "" {
		require.NoError(t, writer.WriteField("folder", folder))
	}
	require.NoError(t, writer.Close())

	c.Request = httptest.NewRequest("POST", "/media", &body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
}

func TestUploadMedia(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()
	store := newMemoryStore()
	useStore(t, store)

	folder := "rehearsals"
	path := "media/rehearsals/2026/3/14/part.txt"
	mock.ExpectQuery(`INSERT INTO "media"`).WillReturnRows(sqlmock.NewRows(mediaColumns).
		AddRow(5, "parts.txt", "https://cdn.example.com/"+path, models.MediaTypeDocument, 21, folder, path, time.Now()))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	multipartRequest(t, c, "parts.txt", folder, []byte("Alto: verse 2 harmony"))

	UploadMedia(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var file models.MediaFile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))
	assert.Equal(t, 5, file.Media_ID)
	assert.Equal(t, models.MediaTypeDocument, file.Type)
	assert.Equal(t, 1, store.count())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadMediaRejections(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		useStore(t, newMemoryStore())
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockAdmin())
		c.Request = httptest.NewRequest("POST", "/media", strings.NewReader(""))

		UploadMedia(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_MB", "1")
		store := newMemoryStore()
		useStore(t, store)
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockAdmin())
		multipartRequest(t, c, "big.wav", "", make([]byte, 2<<20))

		UploadMedia(c)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, 0, store.count())
	})

	t.Run("storage not configured", func(t *testing.T) {
		useStore(t, nil)
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockAdmin())
		multipartRequest(t, c, "parts.txt", "", []byte("Alto"))

		UploadMedia(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestDeleteMedia(t *testing.T) {
	path := "media/general/2026/3/14/grace.mp3"

	tests := []struct {
		name           string
		deleteErr      error
		expectRowGone  bool
		expectedStatus int
	}{
		{name: "removes object then row", expectRowGone: true, expectedStatus: http.StatusOK},
		{name: "storage failure keeps row", deleteErr: errors.New("bucket unavailable"), expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()
			store := newMemoryStore()
			store.objects[path] = []byte("ID3")
			store.deleteErr = tt.deleteErr
			useStore(t, store)

			mock.ExpectQuery(`SELECT .* FROM "media"`).WillReturnRows(sqlmock.NewRows(mediaColumns).
				AddRow(5, "grace.mp3", "https://cdn.example.com/"+path, models.MediaTypeAudio, 3, nil, path, time.Now()))
			if tt.expectRowGone {
				mock.ExpectExec(`DELETE FROM "media"`).WillReturnResult(sqlmock.NewResult(0, 1))
			}

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockAdmin())
			c.Params = gin.Params{{Key: "media_id", Value: "5"}}

			DeleteMedia(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
			if tt.expectRowGone {
				assert.Equal(t, 0, store.count())
			} else {
				assert.Equal(t, 1, store.count())
			}
		})
	}
}

func TestDeleteMediaInvalidID(t *testing.T) {
	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	c.Params = gin.Params{{Key: "media_id", Value: "zero"}}

	DeleteMedia(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
