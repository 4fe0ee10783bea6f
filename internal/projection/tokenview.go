// Package projection holds the client-side view state: reducers that fold
// push events into the REST-fetched baseline. The reducers are pure state
// machines, independent of the transport; each instance is driven from a
// single goroutine. Events are applied in arrival order and the last write
// wins, there is no version guard against out-of-order delivery.
package projection

import (
	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/push"
)

// TokenView is the customer-side projection: one submitted batch, tracked
// by its claim token, plus the shop's accepting-uploads flag.
type TokenView struct {
	Shop models.Shop
	Job  models.PrintJob
}

// NewTokenView seeds the projection from the REST-fetched state of a
// submission or a recovered session.
func NewTokenView(shop models.Shop, job models.PrintJob) *TokenView {
	return &TokenView{Shop: shop, Job: job}
}

// Apply folds one push event into the view and reports whether anything
// visible changed. Status events whose job id or token does not match the
// tracked job leave the view untouched. New-job announcements are a
// dashboard concern and are ignored here.
func (v *TokenView) Apply(ev push.Event) bool {
	switch e := ev.(type) {
	case push.ShopStatus:
		if e.ShopID != "" && v.Shop.ID != "" && e.ShopID != v.Shop.ID {
			return false
		}
		if v.Shop.AcceptingUploads == e.AcceptingUploads {
			return false
		}
		v.Shop.AcceptingUploads = e.AcceptingUploads
		return true

	case push.JobStatusUpdate:
		if !matchesJob(v.Job, e.JobID, e.Token) {
			return false
		}
		return v.setStatus(e.Status)

	case push.BatchStatusUpdate:
		if e.Token == "" || e.Token != v.Job.Token {
			return false
		}
		return v.setStatus(e.Status)
	}

	return false
}

func (v *TokenView) setStatus(status models.JobStatus) bool {
	if status == "" || v.Job.Status == status {
		return false
	}
	v.Job.Status = status
	return true
}

// matchesJob implements the status event addressing rule: a job is hit
// when the event names its id, or names its token.
func matchesJob(job models.PrintJob, jobID, token string) bool {
	if jobID != "" && jobID == job.ID {
		return true
	}
	return token != "" && token == job.Token
}
