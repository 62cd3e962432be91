// Package client implements domain.RemoteGateway against the drive HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/drivestorage/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "drive/1.0"
)

var _ domain.RemoteGateway = (*Client)(nil)

// Client talks to a drive server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for baseURL. A zero timeout uses the default.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// === Files ===

func (c *Client) ListFiles(ctx context.Context) ([]domain.File, error) {
	var files []domain.File
	err := c.doJSON(ctx, http.MethodGet, "/api/files", nil, &files)
	return files, err
}

func (c *Client) UploadFiles(ctx context.Context, uploads []domain.Upload) ([]domain.File, error) {
	body, contentType, err := multipartBody(nil, uploads)
	if err != nil {
		return nil, err
	}
	var files []domain.File
	err = c.do(ctx, http.MethodPost, "/api/files", body, contentType, &files)
	return files, err
}

func (c *Client) TrashFile(ctx context.Context, uid string) (domain.File, error) {
	var file domain.File
	err := c.doJSON(ctx, http.MethodPost, "/api/files/"+uid+"/trash", nil, &file)
	return file, err
}

func (c *Client) RenameFile(ctx context.Context, uid, newName string) (domain.File, error) {
	var file domain.File
	err := c.doJSON(ctx, http.MethodPatch, "/api/files/"+uid, map[string]string{"name": newName}, &file)
	return file, err
}

func (c *Client) MoveFile(ctx context.Context, uid, folderUID string) (domain.File, error) {
	var file domain.File
	err := c.doJSON(ctx, http.MethodPost, "/api/files/"+uid+"/move", map[string]string{"folderUid": folderUID}, &file)
	return file, err
}

func (c *Client) DownloadFile(ctx context.Context, uid string, w io.Writer) error {
	return c.download(ctx, "/api/files/"+uid+"/content", w)
}

// === Folders ===

func (c *Client) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := c.doJSON(ctx, http.MethodGet, "/api/folders", nil, &folders)
	return folders, err
}

func (c *Client) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	var folder domain.Folder
	err := c.doJSON(ctx, http.MethodPost, "/api/folders", map[string]string{"name": name}, &folder)
	return folder, err
}

func (c *Client) UploadFolder(ctx context.Context, name string, uploads []domain.Upload) (domain.Folder, error) {
	body, contentType, err := multipartBody(map[string]string{"name": name}, uploads)
	if err != nil {
		return domain.Folder{}, err
	}
	var folder domain.Folder
	err = c.do(ctx, http.MethodPost, "/api/folders/upload", body, contentType, &folder)
	return folder, err
}

func (c *Client) TrashFolder(ctx context.Context, uid string) (domain.Folder, error) {
	var folder domain.Folder
	err := c.doJSON(ctx, http.MethodPost, "/api/folders/"+uid+"/trash", nil, &folder)
	return folder, err
}

func (c *Client) DownloadFolder(ctx context.Context, uid string, w io.Writer) error {
	return c.download(ctx, "/api/folders/"+uid+"/archive", w)
}

// --- Private helpers ---

// doJSON sends payload (if any) as a JSON body and decodes the response into dest
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, dest any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, dest any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(data))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

// send performs an authenticated request and converts error statuses.
// On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("drive request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("drive request failed", "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, statusError(resp)
}

// statusError maps an error response onto the library's sentinel errors
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrEntityNotFound, body.Error)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidName, body.Error)
	default:
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body.Error)
	}
}

// multipartBody encodes fields and uploads into an in-memory multipart form
func multipartBody(fields map[string]string, uploads []domain.Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, u := range uploads {
		part, err := mw.CreateFormFile("files", u.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, u.Body); err != nil {
			return nil, "", fmt.Errorf("read upload %q: %w", u.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
