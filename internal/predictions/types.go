// Package predictions holds the persisted record of one detection run and its
// append-only Postgres store.
package predictions

import "time"

// Label is one detected object. Coordinates are normalized to [0,1]; the order
// of labels in a summary is the file order of the label source.
type Label struct {
	Class  string  `json:"class"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Summary is the immutable record of one successful detection call. It is
// written exactly once and never mutated afterwards.
type Summary struct {
	ID           string    `json:"prediction_id"`
	OriginalKey  string    `json:"original_img_path"`
	AnnotatedKey string    `json:"predicted_img_path"`
	Labels       []Label   `json:"labels"`
	CreatedAt    time.Time `json:"time"`
}
