package hubapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/koperasihub/product-form-service/internal/model"
)

type UploadRequest struct {
	File    *model.LocalFile
	Role    string
	UserID  string
	StoreID int64
	Type    string
}

type uploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

// Upload sends one file to the hub file store and returns its public location.
func (c *Client) Upload(ctx context.Context, r *UploadRequest) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, r.File.Name))
	contentType := r.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(r.File.Data); err != nil {
		return "", err
	}

	fields := map[string]string{
		"role":    r.Role,
		"userId":  r.UserID,
		"storeId": strconv.FormatInt(r.StoreID, 10),
		"type":    r.Type,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var res uploadResult
	if err := c.send(req, &res); err != nil {
		return "", err
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = fallbackMessage
		}
		return "", &APIError{StatusCode: http.StatusOK, Message: msg}
	}

	location := res.URL
	if location == "" {
		location = res.Path
	}
	if location == "" {
		return "", fmt.Errorf("%w: upload returned no url", ErrMalformedResponse)
	}
	return location, nil
}
