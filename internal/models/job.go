package models

import (
	"encoding/json"
	"strings"
	"time"
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusCompleted JobStatus = "completed"
	StatusExpired   JobStatus = "expired"
	StatusDeleted   JobStatus = "deleted"
)

// IsTerminal returns true for statuses the owner or the server will not
// move a job out of again.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusExpired || s == StatusDeleted
}

// ParseJobStatus normalizes casing for the known statuses. Unknown values
// pass through unchanged: the client displays whatever the server reports
// and performs no transition validation of its own.
func ParseJobStatus(raw string) JobStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "completed":
		return StatusCompleted
	case "expired":
		return StatusExpired
	case "deleted":
		return StatusDeleted
	}
	return JobStatus(strings.TrimSpace(raw))
}

// FileDescriptor describes one stored file of a submitted batch.
type FileDescriptor struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// PrintJob is a submitted batch as the dashboard and status views see it.
type PrintJob struct {
	ID         string           `json:"id"`
	Token      string           `json:"token"`
	ShopID     string           `json:"shopId,omitempty"`
	PrintType  PrintMode        `json:"printType"`
	PrintSides PrintSides       `json:"printSide"`
	Copies     int              `json:"copies"`
	Status     JobStatus        `json:"status"`
	UploadedAt time.Time        `json:"uploadedAt"`
	Files      []FileDescriptor `json:"files"`
}

// FileNames returns the batch file names in upload order.
func (j PrintJob) FileNames() []string {
	names := make([]string, 0, len(j.Files))
	for _, f := range j.Files {
		names = append(names, f.Name)
	}
	return names
}

// printJobWire accepts both the current and the legacy server field names.
type printJobWire struct {
	ID          json.RawMessage `json:"id"`
	MongoID     json.RawMessage `json:"_id"`
	Token       string          `json:"token"`
	TokenNumber string          `json:"token_number"`
	ShopID      json.RawMessage `json:"shopId"`
	ShopIDSnake json.RawMessage `json:"shop_id"`
	PrintType   string          `json:"printType"`
	PrintTypeSn string          `json:"print_type"`
	PrintSide   string          `json:"printSide"`
	PrintSideSn string          `json:"print_side"`
	Copies      json.Number     `json:"copies"`
	Status      string          `json:"status"`
	UploadedAt  string          `json:"uploadedAt"`
	UploadedSn  string          `json:"uploaded_at"`
	CreatedAt   string          `json:"createdAt"`
	Files       []fileWire      `json:"files"`
}

type fileWire struct {
	Name     string `json:"name"`
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	FilePath string `json:"file_path"`
	Size     int64  `json:"size"`
	FileSize int64  `json:"file_size"`
}

func (j *PrintJob) UnmarshalJSON(data []byte) error {
	var w printJobWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	j.ID = firstNonEmpty(DecodeID(w.ID), DecodeID(w.MongoID))
	j.Token = firstNonEmpty(w.Token, w.TokenNumber)
	j.ShopID = firstNonEmpty(DecodeID(w.ShopID), DecodeID(w.ShopIDSnake))
	j.PrintType = canonicalPrintMode(firstNonEmpty(w.PrintType, w.PrintTypeSn))
	j.PrintSides = canonicalPrintSides(firstNonEmpty(w.PrintSide, w.PrintSideSn))
	j.Status = ParseJobStatus(w.Status)
	j.UploadedAt = parseTimestamp(firstNonEmpty(w.UploadedAt, w.UploadedSn, w.CreatedAt))

	if n, err := w.Copies.Int64(); err == nil {
		j.Copies = int(n)
	}

	j.Files = make([]FileDescriptor, 0, len(w.Files))
	for _, f := range w.Files {
		j.Files = append(j.Files, FileDescriptor{
			Name: firstNonEmpty(f.Name, f.FileName),
			Path: firstNonEmpty(f.Path, f.FilePath),
			Size: firstNonZero(f.Size, f.FileSize),
		})
	}

	return nil
}

// DecodeID reads an identifier that the server may encode as a JSON string or
// as a bare number.
func DecodeID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
