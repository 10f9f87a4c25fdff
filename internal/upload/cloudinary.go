package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultCloudinaryEndpoint = "https://api.cloudinary.com/v1_1/dalaunt4j/image/upload"
	DefaultCloudinaryPreset   = "dev_jaytee"
)

// Cloudinary posts unsigned uploads to a Cloudinary upload endpoint using an
// upload preset.
type Cloudinary struct {
	hc       *http.Client
	endpoint string
	preset   string
}

func NewCloudinary(endpoint, preset string, timeout time.Duration) *Cloudinary {
	if endpoint == "" {
		endpoint = DefaultCloudinaryEndpoint
	}
	if preset == "" {
		preset = DefaultCloudinaryPreset
	}
	return &Cloudinary{
		hc:       &http.Client{Timeout: timeout},
		endpoint: endpoint,
		preset:   preset,
	}
}

func (c *Cloudinary) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	_, img, err := sniffImage(body)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, img); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	status, respBody, err := c.do(ctx, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		if msg := gjson.GetBytes(respBody, "error.message").String(); msg != "" {
			return "", fmt.Errorf("cloudinary upload failed: %s (status=%d)", msg, status)
		}
		return "", fmt.Errorf("cloudinary upload failed (status=%d)", status)
	}
	url := gjson.GetBytes(respBody, "secure_url").String()
	if url == "" {
		return "", ErrNoURL
	}
	return url, nil
}

func (c *Cloudinary) do(ctx context.Context, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("content-type", contentType)
	req.Header.Set("accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
