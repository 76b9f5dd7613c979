package models

import "time"

// Document is one stored drawing: a GeoJSON FeatureCollection payload keyed
// by (owner, name). Saving under an existing name replaces the payload.
type Document struct {
	ID        string
	Owner     string
	Name      string
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentInfo is the listing projection of a Document, without the payload.
type DocumentInfo struct {
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
