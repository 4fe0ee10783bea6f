package printflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/printflow2050/printflow-cli/internal/models"
	pferrors "github.com/printflow2050/printflow-cli/internal/printflow/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, false)
}

func TestShop(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/shops/shop-1", r.URL.Path)
		io.WriteString(w, `{"id":"shop-1","name":"Campus Prints","costPerPageMono":1.5,"costPerPageColor":5,"isAcceptingUploads":true}`)
	})

	shop, err := client.Shop(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Equal(t, "Campus Prints", shop.Name)
	require.True(t, shop.AcceptingUploads)
}

func TestShopFillsIDWhenOmitted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"name":"Campus Prints"}`)
	})

	shop, err := client.Shop(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Equal(t, "shop-1", shop.ID)
}

func TestShopNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such shop", http.StatusNotFound)
	})

	_, err := client.Shop(context.Background(), "ghost")
	require.ErrorIs(t, err, pferrors.ErrNotFound)
}

func TestJobStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/jobs/status/A-113", r.URL.Path)
		io.WriteString(w, `{"id":"j1","token":"A-113","status":"pending","printType":"color","printSide":"double","copies":2}`)
	})

	job, err := client.JobStatus(context.Background(), "A-113")
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, job.Status)
	require.Equal(t, models.ModeColor, job.PrintType)
}

func TestTodayJobsShapes(t *testing.T) {
	payloads := map[string]string{
		"bare array":     `[{"id":"j1","token":"A-113"},{"id":"j2","token":"B-204"}]`,
		"jobs wrapper":   `{"jobs":[{"id":"j1","token":"A-113"},{"id":"j2","token":"B-204"}]}`,
		"prints wrapper": `{"prints":[{"id":"j1","token":"A-113"},{"id":"j2","token":"B-204"}]}`,
	}

	for name, payload := range payloads {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/jobs/prints/shop-1", r.URL.Path)
			io.WriteString(w, payload)
		})

		jobs, err := client.TodayJobs(context.Background(), "shop-1")
		require.NoError(t, err, name)
		require.Len(t, jobs, 2, name)
		require.Equal(t, "j1", jobs[0].ID, name)
	}
}

func TestCredentialHeader(t *testing.T) {
	var got string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	})

	_, err := client.TodayJobs(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Empty(t, got, "no credential attached by default")

	client.SetCredential("cred-abc")
	_, err = client.TodayJobs(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Equal(t, "Bearer cred-abc", got)
}

func TestUpdateJobStatus(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateJobStatus(context.Background(), "j1", models.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/api/jobs/j1", gotPath)
	require.Equal(t, map[string]string{"status": "completed"}, gotBody)
}

func TestDeleteJob(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteJob(context.Background(), "j1"))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/api/jobs/j1", gotPath)
}

func TestToggleUploads(t *testing.T) {
	var gotBody map[string]bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/shops/shop-1/toggle-uploads", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"isAcceptingUploads":false}`)
	})

	accepting, err := client.ToggleUploads(context.Background(), "shop-1", false)
	require.NoError(t, err)
	require.False(t, accepting)
	require.Equal(t, map[string]bool{"isAcceptingUploads": false}, gotBody)
}

func TestToggleUploadsEmptyResponseBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	accepting, err := client.ToggleUploads(context.Background(), "shop-1", true)
	require.NoError(t, err)
	require.True(t, accepting, "empty 2xx body: the sent value stands")
}

func TestToggleUploadsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := client.ToggleUploads(context.Background(), "shop-1", true)
	require.ErrorIs(t, err, pferrors.ErrForbidden)
}
