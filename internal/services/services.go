// Package services ties the REST client and the session store together
// for the two customer flows: submitting a batch and recovering a stored
// session. Both take their collaborators as interfaces so the flows stay
// independent of the concrete transport and storage.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/session"
)

// ErrShopClosed rejects a submission before any network call when the
// shop is not accepting uploads.
var ErrShopClosed = errors.New("shop is not accepting uploads")

// Submitter uploads a selection to a shop and returns the claim token.
type Submitter interface {
	SubmitJob(ctx context.Context, shopID string, sel *models.UploadSelection) (string, error)
}

// StatusFetcher resolves the current state of a batch by its token.
type StatusFetcher interface {
	JobStatus(ctx context.Context, token string) (models.PrintJob, error)
}

// Submit validates the selection against the configured rules, uploads it,
// and persists the returned claim token under the shop key, replacing any
// previous token for that shop. On any failure the selection is left
// untouched so the caller may retry; nothing retries automatically.
func Submit(ctx context.Context, api Submitter, store session.Store, shop models.Shop, sel *models.UploadSelection, rules models.UploadRules) (models.PrintJob, error) {
	sel.ClampCopies(rules)
	if err := sel.Validate(rules); err != nil {
		return models.PrintJob{}, err
	}
	if !shop.AcceptingUploads {
		return models.PrintJob{}, ErrShopClosed
	}

	token, err := api.SubmitJob(ctx, shop.ID, sel)
	if err != nil {
		return models.PrintJob{}, err
	}

	if err := store.SaveToken(ctx, shop.ID, token); err != nil {
		// The upload went through; the token is only lost for later runs.
		slog.Warn("Fail to persist claim token", "shop", shop.ID, "token", token, "error", err)
	}

	files := make([]models.FileDescriptor, 0, len(sel.Files))
	for _, f := range sel.Files {
		files = append(files, models.FileDescriptor{Name: f.Name, Size: f.Size})
	}

	return models.PrintJob{
		Token:      token,
		ShopID:     shop.ID,
		PrintType:  sel.Mode,
		PrintSides: sel.Sides,
		Copies:     sel.Copies,
		Status:     models.StatusPending,
		UploadedAt: time.Now(),
		Files:      files,
	}, nil
}

// Recover resolves a previously stored token for the shop and fetches its
// current state, so a returning client sees its submission without a
// re-upload. A token that no longer resolves is cleared silently: the
// stored session was stale, which is self-healing, not an error.
func Recover(ctx context.Context, api StatusFetcher, store session.Store, shopID string) (models.PrintJob, bool, error) {
	token, err := store.Token(ctx, shopID)
	if err != nil {
		return models.PrintJob{}, false, err
	}
	if token == "" {
		return models.PrintJob{}, false, nil
	}

	job, err := api.JobStatus(ctx, token)
	if err != nil {
		slog.Debug("Clearing stale session", "shop", shopID, "token", token, "error", err)
		if cerr := store.ClearToken(ctx, shopID); cerr != nil {
			slog.Warn("Fail to clear stale session", "shop", shopID, "error", cerr)
		}
		return models.PrintJob{}, false, nil
	}

	if job.ShopID == "" {
		job.ShopID = shopID
	}
	return job, true, nil
}
