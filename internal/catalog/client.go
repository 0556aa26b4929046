package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/craftfolio/cms/internal/models"
)

// Client talks to the admin media endpoints. One attempt per call, no
// retries: a failed fetch surfaces as an error state, never a partial list.
type Client struct {
	base  string
	token string
	http  *http.Client
}

func NewClient(base, token string) *Client {
	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

type listEnvelope struct {
	Success bool                `json:"success"`
	Data    []models.MediaAsset `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) List(ctx context.Context, pageContext string) ([]models.MediaAsset, error) {
	endpoint := c.base + "/api/admin/media"
	if pageContext != "" {
		endpoint += "?pageContext=" + url.QueryEscape(pageContext)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("media list returned status %d", resp.StatusCode)
	}

	var env listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode media list: %w", err)
	}
	if !env.Success {
		msg := "unknown error"
		if env.Error != nil {
			msg = env.Error.Message
		}
		return nil, fmt.Errorf("media list rejected: %s", msg)
	}

	return env.Data, nil
}

type uploadResult struct {
	Success      bool   `json:"success"`
	URL          string `json:"url"`
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	UploadedAt   string `json:"uploadedAt"`
	PublicID     string `json:"publicId"`
	Error        string `json:"error"`
}

func (c *Client) Upload(ctx context.Context, r UploadRequest) (models.MediaAsset, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", r.FileName)
	if err != nil {
		return models.MediaAsset{}, err
	}
	if _, err := io.Copy(part, r.Content); err != nil {
		return models.MediaAsset{}, err
	}
	if r.PageContext != "" {
		writer.WriteField("pageContext", r.PageContext)
	}
	if err := writer.Close(); err != nil {
		return models.MediaAsset{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/admin/upload", body)
	if err != nil {
		return models.MediaAsset{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.MediaAsset{}, fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if result.Error != "" {
			return models.MediaAsset{}, fmt.Errorf("upload rejected: %s", result.Error)
		}
		return models.MediaAsset{}, fmt.Errorf("upload returned status %d", resp.StatusCode)
	}

	// A 200 without a usable URL is still a failed upload.
	if !result.Success || result.URL == "" {
		return models.MediaAsset{}, fmt.Errorf("upload response missing url")
	}

	asset := models.MediaAsset{
		PublicID:     result.PublicID,
		FileName:     result.FileName,
		OriginalName: result.OriginalName,
		URL:          result.URL,
		MimeType:     result.Type,
		Size:         result.Size,
		PageContext:  r.PageContext,
	}
	if t, err := time.Parse(time.RFC3339, result.UploadedAt); err == nil {
		asset.UploadedAt = t
	}
	return asset, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	endpoint := c.base + "/api/admin/media/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete returned status %d", resp.StatusCode)
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode delete response: %w", err)
	}
	if !result.Success {
		if result.Error != "" {
			return fmt.Errorf("delete rejected: %s", result.Error)
		}
		return fmt.Errorf("delete rejected")
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
