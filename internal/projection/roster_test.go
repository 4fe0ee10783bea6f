package projection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/push"
)

func testRoster() *Roster {
	return NewRoster(
		models.Shop{ID: "shop-1", AcceptingUploads: true},
		[]models.PrintJob{
			{ID: "j2", Token: "B-204", Status: models.StatusPending},
			{ID: "j1", Token: "A-113", Status: models.StatusCompleted},
		},
	)
}

func TestRosterInsertPrepends(t *testing.T) {
	r := testRoster()

	changed := r.Apply(push.NewJob{Job: models.PrintJob{ID: "j3", Token: "C-355", Status: models.StatusPending}})
	require.True(t, changed)

	jobs := r.Jobs()
	require.Len(t, jobs, 3)
	require.Equal(t, "j3", jobs[0].ID, "push-announced jobs go most-recent-first")
}

func TestRosterInsertDeduplicates(t *testing.T) {
	r := testRoster()

	changed := r.Apply(push.NewJob{Job: models.PrintJob{ID: "j2", Token: "B-204"}})
	require.False(t, changed, "a job announced twice is held once")
	require.Equal(t, 2, r.Len())
}

func TestRosterStatusUpdateByID(t *testing.T) {
	r := testRoster()

	changed := r.Apply(push.JobStatusUpdate{JobID: "j2", Status: models.StatusCompleted})
	require.True(t, changed)

	job, ok := r.Find("j2")
	require.True(t, ok)
	require.Equal(t, models.StatusCompleted, job.Status)

	// No such job: nothing changes.
	require.False(t, r.Apply(push.JobStatusUpdate{JobID: "j9", Status: models.StatusCompleted}))
}

func TestRosterBatchUpdateHitsAllTokenJobs(t *testing.T) {
	r := NewRoster(models.Shop{ID: "shop-1"}, []models.PrintJob{
		{ID: "j1", Token: "A-113", Status: models.StatusPending},
		{ID: "j2", Token: "A-113", Status: models.StatusPending},
		{ID: "j3", Token: "B-204", Status: models.StatusPending},
	})

	changed := r.Apply(push.BatchStatusUpdate{Token: "A-113", Status: models.StatusCompleted})
	require.True(t, changed)

	for _, id := range []string{"j1", "j2"} {
		job, ok := r.Find(id)
		require.True(t, ok)
		require.Equal(t, models.StatusCompleted, job.Status, "job %s shares the batch token", id)
	}
	untouched, _ := r.Find("j3")
	require.Equal(t, models.StatusPending, untouched.Status)
}

func TestRosterDeleteIsSoft(t *testing.T) {
	r := testRoster()

	// The delete action comes back as a push status echo; the job stays
	// on the roster with status deleted.
	require.True(t, r.Apply(push.JobStatusUpdate{JobID: "j1", Status: models.StatusDeleted}))
	require.Equal(t, 2, r.Len())

	job, ok := r.Find("j1")
	require.True(t, ok)
	require.Equal(t, models.StatusDeleted, job.Status)
}

func TestRosterShopFlag(t *testing.T) {
	r := testRoster()

	require.True(t, r.Apply(push.ShopStatus{ShopID: "shop-1", AcceptingUploads: false}))
	require.False(t, r.Shop.AcceptingUploads)
}

func TestRosterFilter(t *testing.T) {
	r := NewRoster(models.Shop{ID: "shop-1"}, []models.PrintJob{
		{ID: "j1", Token: "A-113", Status: models.StatusPending},
		{ID: "j2", Token: "A-872", Status: models.StatusCompleted},
		{ID: "j3", Token: "B-204", Status: models.StatusPending},
	})

	pending := r.Filter(Filter{Status: models.StatusPending})
	require.Len(t, pending, 2)

	byToken := r.Filter(Filter{Search: "a-"})
	require.Len(t, byToken, 2, "search is case-insensitive over the token")

	both := r.Filter(Filter{Status: models.StatusPending, Search: "204"})
	require.Len(t, both, 1)
	require.Equal(t, "j3", both[0].ID)

	all := r.Filter(Filter{})
	require.Len(t, all, 3)
}

func TestRosterCounts(t *testing.T) {
	r := NewRoster(models.Shop{}, []models.PrintJob{
		{ID: "j1", Status: models.StatusPending},
		{ID: "j2", Status: models.StatusPending},
		{ID: "j3", Status: models.StatusExpired},
	})

	counts := r.Counts()
	require.Equal(t, 2, counts[models.StatusPending])
	require.Equal(t, 1, counts[models.StatusExpired])
	require.Equal(t, 0, counts[models.StatusCompleted])
}

func TestRosterJobsReturnsCopy(t *testing.T) {
	r := testRoster()

	jobs := r.Jobs()
	jobs[0].Status = models.StatusExpired

	held, _ := r.Find(jobs[0].ID)
	require.NotEqual(t, models.StatusExpired, held.Status, "mutating the snapshot must not touch the roster")
}
