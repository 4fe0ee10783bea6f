package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type PrintMode string

const (
	ModeMonochrome PrintMode = "monochrome"
	ModeColor      PrintMode = "color"
)

type PrintSides string

const (
	SidesSingle PrintSides = "single"
	SidesDouble PrintSides = "double"
)

// ParsePrintMode maps user input to a print mode.
func ParsePrintMode(raw string) (PrintMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "monochrome", "mono", "bw", "b/w":
		return ModeMonochrome, nil
	case "color", "colour":
		return ModeColor, nil
	}
	return "", fmt.Errorf("unknown print mode %q (use mono or color)", raw)
}

// ParsePrintSides maps user input to a sidedness selection.
func ParsePrintSides(raw string) (PrintSides, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "single", "simplex":
		return SidesSingle, nil
	case "double", "duplex":
		return SidesDouble, nil
	}
	return "", fmt.Errorf("unknown sides %q (use single or double)", raw)
}

// canonicalPrintMode is the tolerant variant used when decoding server
// payloads: known aliases normalize, anything else passes through.
func canonicalPrintMode(raw string) PrintMode {
	if m, err := ParsePrintMode(raw); err == nil {
		return m
	}
	return PrintMode(strings.TrimSpace(raw))
}

func canonicalPrintSides(raw string) PrintSides {
	if s, err := ParsePrintSides(raw); err == nil {
		return s
	}
	return PrintSides(strings.TrimSpace(raw))
}

// LocalFile is one file picked for upload, probed from disk.
type LocalFile struct {
	Name string
	Path string
	Size int64
}

func NewLocalFile(path string) (LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return LocalFile{}, err
	}
	if fi.IsDir() {
		return LocalFile{}, fmt.Errorf("%s is a directory", path)
	}
	return LocalFile{Name: fi.Name(), Path: path, Size: fi.Size()}, nil
}

// UploadRules are the externally configured constraints a selection must
// satisfy before any network call is made.
type UploadRules struct {
	AcceptedTypes []string // lowercase extensions including the dot
	MaxFileSize   int64    // bytes, 0 disables the ceiling
	MinCopies     int
	MaxCopies     int
}

// Accepts reports whether the file name carries an allowed extension.
// An empty allow-list accepts everything.
func (r UploadRules) Accepts(name string) bool {
	if len(r.AcceptedTypes) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, t := range r.AcceptedTypes {
		if ext == strings.ToLower(t) {
			return true
		}
	}
	return false
}

// UploadSelection is the transient state of the submission form: the picked
// files in order plus the print options. It is discarded after a successful
// submission.
type UploadSelection struct {
	Files  []LocalFile
	Mode   PrintMode
	Sides  PrintSides
	Copies int
}

// AddFile probes path and appends it to the selection.
func (s *UploadSelection) AddFile(path string) error {
	f, err := NewLocalFile(path)
	if err != nil {
		return err
	}
	s.Files = append(s.Files, f)
	return nil
}

// ClampCopies forces the copy count into the configured range. Values below
// the minimum become the minimum, values above the maximum become the
// maximum, so the submitted payload never carries an out-of-range count.
func (s *UploadSelection) ClampCopies(r UploadRules) {
	if r.MinCopies > 0 && s.Copies < r.MinCopies {
		s.Copies = r.MinCopies
	}
	if r.MaxCopies > 0 && s.Copies > r.MaxCopies {
		s.Copies = r.MaxCopies
	}
}

// Validate rejects a selection before any network call: empty file set,
// disallowed extension, oversized file, or an unset option.
func (s *UploadSelection) Validate(r UploadRules) error {
	if len(s.Files) == 0 {
		return fmt.Errorf("no files selected")
	}
	for _, f := range s.Files {
		if !r.Accepts(f.Name) {
			return fmt.Errorf("file type of %s not accepted (allowed: %s)", f.Name, strings.Join(r.AcceptedTypes, ", "))
		}
		if r.MaxFileSize > 0 && f.Size > r.MaxFileSize {
			return fmt.Errorf("%s exceeds the size limit of %d bytes", f.Name, r.MaxFileSize)
		}
	}
	switch s.Mode {
	case ModeMonochrome, ModeColor:
	default:
		return fmt.Errorf("print mode must be mono or color")
	}
	switch s.Sides {
	case SidesSingle, SidesDouble:
	default:
		return fmt.Errorf("sides must be single or double")
	}
	return nil
}
