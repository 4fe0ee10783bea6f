package printflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/printflow2050/printflow-cli/internal/models"
	pferrors "github.com/printflow2050/printflow-cli/internal/printflow/errors"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

// SubmitJob uploads the selection to the shop's upload endpoint as one
// multipart request and returns the claim token the server assigned to the
// batch. The request body is streamed, files are never buffered whole.
func (c *Client) SubmitJob(ctx context.Context, shopID string, sel *models.UploadSelection) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		if err := writeSubmission(mw, sel); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf(UploadPath, url.PathEscape(shopID)), pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to shop %s: %w", shopID, err)
	}
	defer resp.Body.Close()

	if err := pferrors.ParseError(resp.StatusCode); err != nil {
		return "", fmt.Errorf("upload to shop %s: %w", shopID, err)
	}

	var out struct {
		TokenNumber string `json:"token_number"`
		Token       string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	token := out.TokenNumber
	if token == "" {
		token = out.Token
	}
	if token == "" {
		return "", fmt.Errorf("upload response carries no token")
	}
	return token, nil
}

func writeSubmission(mw *multipart.Writer, sel *models.UploadSelection) error {
	for _, f := range sel.Files {
		part, err := mw.CreatePart(filePartHeader(f.Name))
		if err != nil {
			return err
		}
		fd, err := os.Open(f.Path)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, fd)
		fd.Close()
		if err != nil {
			return err
		}
	}
	if err := mw.WriteField("print_type", string(sel.Mode)); err != nil {
		return err
	}
	if err := mw.WriteField("print_side", string(sel.Sides)); err != nil {
		return err
	}
	return mw.WriteField("copies", strconv.Itoa(sel.Copies))
}

// filePartHeader builds the part header for one uploaded file, carrying the
// real content type so the server can reject unsupported formats early.
func filePartHeader(name string) textproto.MIMEHeader {
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)
	return h
}
