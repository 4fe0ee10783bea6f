package printflow

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	pferrors "github.com/printflow2050/printflow-cli/internal/printflow/errors"
)

func TestDownloadFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/download", r.URL.Path)
		require.Equal(t, "uploads/notes.pdf", r.URL.Query().Get("path"))
		w.Header().Set("Content-Disposition", `attachment; filename="notes.pdf"`)
		io.WriteString(w, "%PDF-content")
	})

	dl, err := client.DownloadFile(context.Background(), "uploads/notes.pdf")
	require.NoError(t, err)
	defer dl.Body.Close()

	require.Equal(t, "notes.pdf", dl.Name)
	content, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	require.Equal(t, "%PDF-content", string(content))
}

func TestDownloadFileFallsBackToPathBase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "data")
	})

	dl, err := client.DownloadFile(context.Background(), "uploads/2025/cv.pdf")
	require.NoError(t, err)
	defer dl.Body.Close()
	require.Equal(t, "cv.pdf", dl.Name)
}

func TestDownloadBatchUsesDispositionName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/download/batch/A-113", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="campus-prints-A-113.zip"`)
		io.WriteString(w, "PK")
	})

	dl, err := client.DownloadBatch(context.Background(), "A-113")
	require.NoError(t, err)
	defer dl.Body.Close()
	require.Equal(t, "campus-prints-A-113.zip", dl.Name)
}

func TestDownloadBatchGeneratedFallbackName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "PK")
	})

	dl, err := client.DownloadBatch(context.Background(), "A-113")
	require.NoError(t, err)
	defer dl.Body.Close()
	require.Equal(t, "printjob_A-113.zip", dl.Name, "fallback name carries the token")
}

func TestDownloadStripsDispositionPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../../etc/passwd"`)
		io.WriteString(w, "x")
	})

	dl, err := client.DownloadBatch(context.Background(), "A-113")
	require.NoError(t, err)
	defer dl.Body.Close()
	require.Equal(t, "passwd", dl.Name)
}

func TestDownloadUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login first", http.StatusUnauthorized)
	})

	_, err := client.DownloadBatch(context.Background(), "A-113")
	require.ErrorIs(t, err, pferrors.ErrUnauthorized)
}
