package printflow

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	pferrors "github.com/printflow2050/printflow-cli/internal/printflow/errors"
)

// Download is an open file retrieval. The caller owns Body and must close
// it after streaming.
type Download struct {
	Name string // server-suggested file name
	Size int64  // -1 when the server did not announce a length
	Body io.ReadCloser
}

// DownloadFile retrieves a single stored file by its storage path.
func (c *Client) DownloadFile(ctx context.Context, storagePath string) (*Download, error) {
	q := url.Values{}
	q.Set("path", storagePath)
	req, err := c.newRequest(ctx, http.MethodGet, DownloadPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	dl, err := c.doDownload(req, filepath.Base(storagePath))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", storagePath, err)
	}
	return dl, nil
}

// DownloadBatch retrieves the archive of every file submitted under the
// token. When the response carries no Content-Disposition the name falls
// back to printjob_<token>.zip.
func (c *Client) DownloadBatch(ctx context.Context, token string) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(BatchDownloadPath, url.PathEscape(token)), nil)
	if err != nil {
		return nil, err
	}
	dl, err := c.doDownload(req, fmt.Sprintf("printjob_%s.zip", token))
	if err != nil {
		return nil, fmt.Errorf("download batch %s: %w", token, err)
	}
	return dl, nil
}

func (c *Client) doDownload(req *http.Request, fallbackName string) (*Download, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if err := pferrors.ParseError(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = fallbackName
	}
	return &Download{Name: name, Size: resp.ContentLength, Body: resp.Body}, nil
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil || params["filename"] == "" {
		return ""
	}
	// Strip any path the server may have left in.
	return filepath.Base(params["filename"])
}
