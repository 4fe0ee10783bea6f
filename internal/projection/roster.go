package projection

import (
	"strings"

	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/push"
)

// Roster is the dashboard-side projection: today's jobs of a shop, seeded
// from one REST fetch and kept current by push events. Jobs are never
// removed; a deletion only flips the status, matching the server's
// soft-delete model.
type Roster struct {
	Shop models.Shop
	jobs []models.PrintJob
}

// NewRoster seeds the projection. The job order of the fetch is kept;
// push-announced jobs are inserted most-recent-first.
func NewRoster(shop models.Shop, jobs []models.PrintJob) *Roster {
	r := &Roster{Shop: shop, jobs: make([]models.PrintJob, len(jobs))}
	copy(r.jobs, jobs)
	return r
}

// Apply folds one push event into the roster and reports whether anything
// changed.
func (r *Roster) Apply(ev push.Event) bool {
	switch e := ev.(type) {
	case push.ShopStatus:
		if e.ShopID != "" && r.Shop.ID != "" && e.ShopID != r.Shop.ID {
			return false
		}
		if r.Shop.AcceptingUploads == e.AcceptingUploads {
			return false
		}
		r.Shop.AcceptingUploads = e.AcceptingUploads
		return true

	case push.NewJob:
		return r.insert(e.Job)

	case push.JobStatusUpdate:
		changed := false
		for i := range r.jobs {
			if matchesJob(r.jobs[i], e.JobID, e.Token) && r.setStatus(i, e.Status) {
				changed = true
			}
		}
		return changed

	case push.BatchStatusUpdate:
		if e.Token == "" {
			return false
		}
		changed := false
		for i := range r.jobs {
			if r.jobs[i].Token == e.Token && r.setStatus(i, e.Status) {
				changed = true
			}
		}
		return changed
	}

	return false
}

// insert prepends the job unless one with the same id is already held.
func (r *Roster) insert(job models.PrintJob) bool {
	if job.ID == "" && job.Token == "" {
		return false
	}
	for i := range r.jobs {
		if job.ID != "" && r.jobs[i].ID == job.ID {
			return false
		}
	}
	r.jobs = append([]models.PrintJob{job}, r.jobs...)
	return true
}

func (r *Roster) setStatus(i int, status models.JobStatus) bool {
	if status == "" || r.jobs[i].Status == status {
		return false
	}
	r.jobs[i].Status = status
	return true
}

// Jobs returns a copy of the held jobs in display order.
func (r *Roster) Jobs() []models.PrintJob {
	out := make([]models.PrintJob, len(r.jobs))
	copy(out, r.jobs)
	return out
}

// Len returns the number of held jobs.
func (r *Roster) Len() int {
	return len(r.jobs)
}

// Find returns the held job with the given id.
func (r *Roster) Find(jobID string) (models.PrintJob, bool) {
	for i := range r.jobs {
		if r.jobs[i].ID == jobID {
			return r.jobs[i], true
		}
	}
	return models.PrintJob{}, false
}

// Counts tallies the held jobs per status.
func (r *Roster) Counts() map[models.JobStatus]int {
	counts := make(map[models.JobStatus]int)
	for i := range r.jobs {
		counts[r.jobs[i].Status]++
	}
	return counts
}

// Filter selects jobs locally: by status category and by substring search
// over the token value. Zero values select everything.
type Filter struct {
	Status models.JobStatus
	Search string
}

// Match reports whether the job passes the filter.
func (f Filter) Match(job models.PrintJob) bool {
	if f.Status != "" && job.Status != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(job.Token), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Filter returns the held jobs passing f, in display order.
func (r *Roster) Filter(f Filter) []models.PrintJob {
	out := make([]models.PrintJob, 0, len(r.jobs))
	for i := range r.jobs {
		if f.Match(r.jobs[i]) {
			out = append(out, r.jobs[i])
		}
	}
	return out
}
