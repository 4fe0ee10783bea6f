package models

import "encoding/json"

// Shop is the per-shop metadata served by the shop details endpoint.
// The client holds a read-only copy, refreshed on load and whenever a
// shopStatusUpdate push event arrives.
type Shop struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	CostPerPageMono  float64 `json:"costPerPageMono"`
	CostPerPageColor float64 `json:"costPerPageColor"`
	AcceptingUploads bool    `json:"isAcceptingUploads"`
}

// shopWire accepts both the current and the legacy server field names.
type shopWire struct {
	ID            json.RawMessage `json:"id"`
	MongoID       json.RawMessage `json:"_id"`
	Name          string          `json:"name"`
	ShopName      string          `json:"shopName"`
	CostMono      *float64        `json:"costPerPageMono"`
	CostMonoSnake *float64        `json:"cost_per_page_mono"`
	CostBW        *float64        `json:"costPerPageBW"`
	CostColor     *float64        `json:"costPerPageColor"`
	CostColorSnak *float64        `json:"cost_per_page_color"`
	Accepting     *bool           `json:"isAcceptingUploads"`
	AcceptingAlt  *bool           `json:"acceptingUploads"`
	AcceptingSnak *bool           `json:"is_accepting_uploads"`
}

func (s *Shop) UnmarshalJSON(data []byte) error {
	var w shopWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	s.ID = firstNonEmpty(DecodeID(w.ID), DecodeID(w.MongoID))
	s.Name = firstNonEmpty(w.Name, w.ShopName)
	s.CostPerPageMono = firstFloat(w.CostMono, w.CostMonoSnake, w.CostBW)
	s.CostPerPageColor = firstFloat(w.CostColor, w.CostColorSnak)

	for _, b := range []*bool{w.Accepting, w.AcceptingAlt, w.AcceptingSnak} {
		if b != nil {
			s.AcceptingUploads = *b
			break
		}
	}
	return nil
}

func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
