// Package printflow is the REST client for the print-shop backend: shop
// metadata, job submission and status, the owner's job actions, and file
// retrieval. Push updates are handled separately by the push package.
package printflow

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/printflow2050/printflow-cli/internal/models"
	pferrors "github.com/printflow2050/printflow-cli/internal/printflow/errors"
)

const (
	ShopPath          = "/api/shops/%s"
	JobStatusPath     = "/api/jobs/status/%s"
	UploadPath        = "/api/upload/%s"
	TodayJobsPath     = "/api/jobs/prints/%s"
	JobPath           = "/api/jobs/%s"
	ToggleUploadsPath = "/api/shops/%s/toggle-uploads"
	DownloadPath      = "/api/download"
	BatchDownloadPath = "/api/download/batch/%s"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	credential string
	httpc      *http.Client
}

// New builds a client for the backend at baseURL. A zero timeout falls back
// to 30s. insecure skips TLS verification for self-hosted shops running on
// self-signed certificates.
func New(baseURL string, timeout time.Duration, insecure bool) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{}
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// SetCredential attaches the owner's bearer token to every subsequent
// request.
func (c *Client) SetCredential(cred string) {
	c.credential = cred
}

// HasCredential reports whether a bearer token is attached.
func (c *Client) HasCredential() bool {
	return c.credential != ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.credential != "" {
		req.Header.Set("Authorization", "Bearer "+c.credential)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := pferrors.ParseError(resp.StatusCode); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Shop fetches the shop metadata.
func (c *Client) Shop(ctx context.Context, shopID string) (models.Shop, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(ShopPath, url.PathEscape(shopID)), nil)
	if err != nil {
		return models.Shop{}, err
	}
	var shop models.Shop
	if err := c.doJSON(req, &shop); err != nil {
		return models.Shop{}, fmt.Errorf("fetch shop %s: %w", shopID, err)
	}
	if shop.ID == "" {
		shop.ID = shopID
	}
	return shop, nil
}

// JobStatus fetches the current state of a submitted batch by its token.
func (c *Client) JobStatus(ctx context.Context, token string) (models.PrintJob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(JobStatusPath, url.PathEscape(token)), nil)
	if err != nil {
		return models.PrintJob{}, err
	}
	var job models.PrintJob
	if err := c.doJSON(req, &job); err != nil {
		return models.PrintJob{}, fmt.Errorf("fetch status of %s: %w", token, err)
	}
	if job.Token == "" {
		job.Token = token
	}
	return job, nil
}

// TodayJobs fetches the current day's jobs for a shop. Requires a
// credential. The response may be a bare array or wrapped in an object,
// depending on the server version.
func (c *Client) TodayJobs(ctx context.Context, shopID string) ([]models.PrintJob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(TodayJobsPath, url.PathEscape(shopID)), nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.doJSON(req, &raw); err != nil {
		return nil, fmt.Errorf("fetch jobs of shop %s: %w", shopID, err)
	}
	return decodeJobList(raw)
}

func decodeJobList(raw json.RawMessage) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	if err := json.Unmarshal(raw, &jobs); err == nil {
		return jobs, nil
	}
	var wrapped struct {
		Jobs   []models.PrintJob `json:"jobs"`
		Prints []models.PrintJob `json:"prints"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected job list payload: %w", err)
	}
	if wrapped.Jobs != nil {
		return wrapped.Jobs, nil
	}
	return wrapped.Prints, nil
}

// UpdateJobStatus sets a job's status, typically to completed. The visible
// state change is observed through the push echo, not this response.
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf(JobPath, url.PathEscape(jobID)), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	return nil
}

// DeleteJob soft-deletes a job; the server keeps it with status deleted.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf(JobPath, url.PathEscape(jobID)), nil)
	if err != nil {
		return err
	}
	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}
	return nil
}

// ToggleUploads sets the shop-wide accepting-uploads flag and returns the
// resulting state. Unlike job actions this result is applied directly; the
// push echo only confirms it.
func (c *Client) ToggleUploads(ctx context.Context, shopID string, accepting bool) (bool, error) {
	body, err := json.Marshal(map[string]bool{"isAcceptingUploads": accepting})
	if err != nil {
		return false, err
	}
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf(ToggleUploadsPath, url.PathEscape(shopID)), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	var echo struct {
		AcceptingUploads *bool `json:"isAcceptingUploads"`
	}
	if err := c.doJSON(req, &echo); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty 2xx body: the sent value stands.
			return accepting, nil
		}
		return false, fmt.Errorf("toggle uploads of shop %s: %w", shopID, err)
	}
	if echo.AcceptingUploads != nil {
		return *echo.AcceptingUploads, nil
	}
	return accepting, nil
}
