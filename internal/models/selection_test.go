package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrintMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PrintMode
		wantErr bool
	}{
		{"mono", ModeMonochrome, false},
		{"monochrome", ModeMonochrome, false},
		{"BW", ModeMonochrome, false},
		{"color", ModeColor, false},
		{"Colour", ModeColor, false},
		{"sepia", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePrintMode(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestParsePrintSides(t *testing.T) {
	got, err := ParsePrintSides("duplex")
	require.NoError(t, err)
	require.Equal(t, SidesDouble, got)

	got, err = ParsePrintSides("Single")
	require.NoError(t, err)
	require.Equal(t, SidesSingle, got)

	_, err = ParsePrintSides("triple")
	require.Error(t, err)
}

func TestUploadRulesAccepts(t *testing.T) {
	rules := UploadRules{AcceptedTypes: []string{".pdf", ".docx"}}

	require.True(t, rules.Accepts("notes.pdf"))
	require.True(t, rules.Accepts("REPORT.PDF"))
	require.True(t, rules.Accepts("cv.docx"))
	require.False(t, rules.Accepts("song.mp3"))
	require.False(t, rules.Accepts("noext"))

	// An empty allow-list accepts everything.
	require.True(t, UploadRules{}.Accepts("anything.xyz"))
}

func TestClampCopies(t *testing.T) {
	rules := UploadRules{MinCopies: 1, MaxCopies: 10}

	sel := UploadSelection{Copies: 0}
	sel.ClampCopies(rules)
	require.Equal(t, 1, sel.Copies, "below minimum clamps up")

	sel = UploadSelection{Copies: 25}
	sel.ClampCopies(rules)
	require.Equal(t, 10, sel.Copies, "above maximum clamps down")

	sel = UploadSelection{Copies: 5}
	sel.ClampCopies(rules)
	require.Equal(t, 5, sel.Copies)
}

func TestSelectionValidate(t *testing.T) {
	rules := UploadRules{AcceptedTypes: []string{".pdf"}, MaxFileSize: 1024, MinCopies: 1, MaxCopies: 10}
	okFile := LocalFile{Name: "notes.pdf", Path: "/tmp/notes.pdf", Size: 512}

	tests := []struct {
		name    string
		sel     UploadSelection
		wantErr bool
	}{
		{"valid", UploadSelection{Files: []LocalFile{okFile}, Mode: ModeMonochrome, Sides: SidesSingle, Copies: 1}, false},
		{"no files", UploadSelection{Mode: ModeMonochrome, Sides: SidesSingle, Copies: 1}, true},
		{"bad extension", UploadSelection{Files: []LocalFile{{Name: "a.exe", Size: 10}}, Mode: ModeMonochrome, Sides: SidesSingle, Copies: 1}, true},
		{"oversized", UploadSelection{Files: []LocalFile{{Name: "big.pdf", Size: 4096}}, Mode: ModeMonochrome, Sides: SidesSingle, Copies: 1}, true},
		{"unset mode", UploadSelection{Files: []LocalFile{okFile}, Sides: SidesSingle, Copies: 1}, true},
		{"unset sides", UploadSelection{Files: []LocalFile{okFile}, Mode: ModeColor, Copies: 1}, true},
	}

	for _, tt := range tests {
		err := tt.sel.Validate(rules)
		if tt.wantErr {
			require.Error(t, err, tt.name)
		} else {
			require.NoError(t, err, tt.name)
		}
	}
}

func TestAddFileProbesDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	var sel UploadSelection
	require.NoError(t, sel.AddFile(path))
	require.Len(t, sel.Files, 1)
	require.Equal(t, "notes.pdf", sel.Files[0].Name)
	require.Equal(t, int64(8), sel.Files[0].Size)

	require.Error(t, sel.AddFile(filepath.Join(dir, "missing.pdf")))
	require.Error(t, sel.AddFile(dir), "directories are rejected")
}
