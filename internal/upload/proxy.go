package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ProxyUploader sends the image through the backend's multipart endpoint
// instead of talking to object storage directly.
type ProxyUploader struct {
	baseURL    string
	bucket     string
	httpClient *http.Client
}

func NewProxyUploader(baseURL, bucket string) *ProxyUploader {
	return &ProxyUploader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		httpClient: &http.Client{},
	}
}

func (p *ProxyUploader) Upload(ctx context.Context, file io.Reader, size int64, contentType string) (string, error) {
	if err := ValidateImage(size, contentType); err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "image"+imageExtensions[contentType])
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish multipart body: %w", err)
	}

	endpoint := p.baseURL + "/image/upload?bucket=" + url.QueryEscape(p.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			return "", fmt.Errorf("upload rejected: %s", payload.Error)
		}
		return "", fmt.Errorf("upload rejected: status %d", resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return payload.URL, nil
}
