// Package apiclient talks to the praise night REST API and its change
// streams.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PraiseNight/models"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Client calls the API with a bearer access key.
type Client struct {
	baseURL      string
	accessKey    string
	httpClient   *http.Client
	streamClient *http.Client
}

func New(baseURL, accessKey string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		accessKey:    accessKey,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		streamClient: &http.Client{},
	}
}

// GetAllPages implements syncer.Fetcher.
func (c *Client) GetAllPages(ctx context.Context) ([]models.PraiseNight, error) {
	var pages []models.PraiseNight
	if err := c.do(ctx, http.MethodGet, "/pages", nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Client) CreatePage(ctx context.Context, body models.PraiseNightCreate) (models.PraiseNight, error) {
	var page models.PraiseNight
	err := c.do(ctx, http.MethodPost, "/pages", body, &page)
	return page, err
}

func (c *Client) GetSongsByPage(ctx context.Context, pageID int) ([]models.PraiseNightSong, error) {
	var songs []models.PraiseNightSong
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pages/%d/songs", pageID), nil, &songs)
	return songs, err
}

func (c *Client) CreateSong(ctx context.Context, pageID int, body models.SongCreate) (models.PraiseNightSong, error) {
	var song models.PraiseNightSong
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/pages/%d/songs", pageID), body, &song)
	return song, err
}

func (c *Client) GetAllCategories(ctx context.Context) ([]models.CategoryView, error) {
	var categories []models.CategoryView
	err := c.do(ctx, http.MethodGet, "/categories", nil, &categories)
	return categories, err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessKey)
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	return apiErr
}
