// internal/models/provenance.go
package models

import "time"

// ProvenanceEvent is one entry in a product's append-only history.
type ProvenanceEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	ActorAddress string    `json:"actorAddress"`
	Details      string    `json:"details,omitempty"`
}

// ProductProvenance is the ordered event log for a single product. The first
// event is always the creation event; callers append in causal order and the
// tracker never reorders.
type ProductProvenance struct {
	ProductID string            `json:"productId"`
	History   []ProvenanceEvent `json:"history"`
}
