package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload is a binary attachment for a create or update.
type Upload struct {
	Field    string
	Filename string
	Content  io.Reader
}

// PostMultipart creates a resource with an attached file. JSON encoding is
// used only when no binary accompanies the payload; with a file the request
// switches to multipart form encoding.
func (c *Client) PostMultipart(ctx context.Context, token, path string, fields map[string]string, file *Upload, out any) error {
	return c.sendMultipart(ctx, token, path, fields, file, out)
}

// PutMultipart updates a resource with an attached file. The core API's
// framework cannot parse multipart bodies on PUT, so the request goes out as
// POST carrying a _method=PUT override field.
func (c *Client) PutMultipart(ctx context.Context, token, path string, fields map[string]string, file *Upload, out any) error {
	override := map[string]string{"_method": "PUT"}
	for k, v := range fields {
		override[k] = v
	}
	return c.sendMultipart(ctx, token, path, override, file, out)
}

// UploadedFile is the backend's answer to a file upload.
type UploadedFile struct {
	Path      string `json:"path"`
	ImagePath string `json:"image_path"`
}

// StoredPath returns whichever path field the backend populated.
func (u UploadedFile) StoredPath() string {
	if u.Path != "" {
		return u.Path
	}
	return u.ImagePath
}

// UploadFile stores a standalone file and returns its path, which entity
// payloads then reference as image_path / video_path.
func (c *Client) UploadFile(ctx context.Context, token string, file Upload) (string, error) {
	if file.Field == "" {
		file.Field = "file"
	}

	var stored UploadedFile
	if err := c.sendMultipart(ctx, token, "/webadmin/files", nil, &file, &stored); err != nil {
		return "", err
	}

	path := stored.StoredPath()
	if path == "" {
		return "", fmt.Errorf("backend returned no stored path")
	}
	return path, nil
}

func (c *Client) sendMultipart(ctx context.Context, token, path string, fields map[string]string, file *Upload, out any) error {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		err := writeForm(form, fields, file)
		if cerr := form.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	return decodeInto(resp, out)
}

func writeForm(form *multipart.Writer, fields map[string]string, file *Upload) error {
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if file != nil {
		part, err := form.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("copy file content: %w", err)
		}
	}
	return nil
}
