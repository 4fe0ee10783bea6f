package push

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/printflow2050/printflow-cli/internal/models"
)

// Event names on the wire, shared with the web clients.
const (
	EventJoinShopRoom      = "joinShopRoom"
	EventShopStatusUpdate  = "shopStatusUpdate"
	EventJobStatusUpdate   = "jobStatusUpdate"
	EventBatchStatusUpdate = "batchStatusUpdate"
	EventNewBatchPrintJob  = "newBatchPrintJob"
)

// ErrUnknownEvent marks a frame whose event name the client does not
// consume. The reader skips such frames without disrupting the stream.
var ErrUnknownEvent = errors.New("unknown push event")

// Envelope is the frame shape in both directions: an event name plus an
// event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is one decoded server push. The concrete types are ShopStatus,
// JobStatusUpdate, BatchStatusUpdate and NewJob.
type Event interface {
	event()
}

// ShopStatus announces a flip of the shop-wide accepting-uploads flag.
type ShopStatus struct {
	ShopID           string
	AcceptingUploads bool
}

// JobStatusUpdate carries a single job's new status, keyed by job id
// and/or token.
type JobStatusUpdate struct {
	JobID  string
	Token  string
	Status models.JobStatus
}

// BatchStatusUpdate carries a new status for every job submitted under
// one token.
type BatchStatusUpdate struct {
	Token  string
	Status models.JobStatus
}

// NewJob announces a job just submitted to the shop.
type NewJob struct {
	Job models.PrintJob
}

func (ShopStatus) event()        {}
func (JobStatusUpdate) event()   {}
func (BatchStatusUpdate) event() {}
func (NewJob) event()            {}

type shopStatusWire struct {
	ShopID        json.RawMessage `json:"shopId"`
	ShopIDSnake   json.RawMessage `json:"shop_id"`
	Accepting     *bool           `json:"isAcceptingUploads"`
	AcceptingAlt  *bool           `json:"acceptingUploads"`
	AcceptingSnak *bool           `json:"is_accepting_uploads"`
}

type jobStatusWire struct {
	JobID       json.RawMessage `json:"jobId"`
	JobIDSnake  json.RawMessage `json:"job_id"`
	ID          json.RawMessage `json:"id"`
	Token       string          `json:"token"`
	TokenNumber string          `json:"token_number"`
	Status      string          `json:"status"`
}

type batchStatusWire struct {
	Token       string `json:"token"`
	TokenNumber string `json:"token_number"`
	Status      string `json:"status"`
}

// Decode maps a server frame to its typed event. Unknown event names
// return ErrUnknownEvent.
func Decode(env Envelope) (Event, error) {
	switch env.Event {
	case EventShopStatusUpdate:
		var w shopStatusWire
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		ev := ShopStatus{ShopID: firstID(w.ShopID, w.ShopIDSnake)}
		for _, b := range []*bool{w.Accepting, w.AcceptingAlt, w.AcceptingSnak} {
			if b != nil {
				ev.AcceptingUploads = *b
				break
			}
		}
		return ev, nil

	case EventJobStatusUpdate:
		var w jobStatusWire
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return JobStatusUpdate{
			JobID:  firstID(w.JobID, w.JobIDSnake, w.ID),
			Token:  firstNonEmpty(w.Token, w.TokenNumber),
			Status: models.ParseJobStatus(w.Status),
		}, nil

	case EventBatchStatusUpdate:
		var w batchStatusWire
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return BatchStatusUpdate{
			Token:  firstNonEmpty(w.Token, w.TokenNumber),
			Status: models.ParseJobStatus(w.Status),
		}, nil

	case EventNewBatchPrintJob:
		var job models.PrintJob
		if err := json.Unmarshal(env.Data, &job); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		if job.ID == "" && job.Token == "" {
			// Some server versions wrap the job in a field.
			var wrapped struct {
				Job *models.PrintJob `json:"job"`
			}
			if err := json.Unmarshal(env.Data, &wrapped); err == nil && wrapped.Job != nil {
				job = *wrapped.Job
			}
		}
		return NewJob{Job: job}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, env.Event)
}

type joinPayload struct {
	ShopID   string `json:"shopId"`
	ClientID string `json:"clientId"`
	Token    string `json:"token,omitempty"`
}

// newJoinEnvelope builds the room membership announcement sent on every
// (re)connect. credential is the owner's bearer token, empty on the
// customer surface.
func newJoinEnvelope(shopID, clientID, credential string) (Envelope, error) {
	data, err := json.Marshal(joinPayload{
		ShopID:   shopID,
		ClientID: clientID,
		Token:    credential,
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: EventJoinShopRoom, Data: data}, nil
}

func firstID(raws ...json.RawMessage) string {
	for _, raw := range raws {
		if id := models.DecodeID(raw); id != "" {
			return id
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
