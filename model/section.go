package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// BoundingBox is the page-relative position of a block or section heading.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Value implements the driver.Valuer interface for JSONB storage.
func (b BoundingBox) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (b *BoundingBox) Scan(value interface{}) error {
	if value == nil {
		*b = BoundingBox{}
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(raw, b)
}

// BoundingBoxes is a JSONB-stored list of bounding boxes, parallel to a
// chunk's section headings.
type BoundingBoxes []BoundingBox

// Value implements the driver.Valuer interface for JSONB storage.
func (b BoundingBoxes) Value() (driver.Value, error) {
	if b == nil {
		return json.Marshal(BoundingBoxes{})
	}
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (b *BoundingBoxes) Scan(value interface{}) error {
	if value == nil {
		*b = BoundingBoxes{}
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(raw, b)
}

// Section is one structurally-delimited unit of a source document: a heading
// block plus all body text up to the next heading. Sections are produced in
// strictly increasing document order and are immutable after extraction;
// ID, DocumentID and Order are filled in by the graph store on insert.
type Section struct {
	ID         int64       `json:"id,omitempty"`
	DocumentID int64       `json:"document_id,omitempty"`
	Heading    string      `json:"heading"`
	Level      int         `json:"level"`
	PageNo     int         `json:"page_no"`
	BBox       BoundingBox `json:"bbox"`
	Text       string      `json:"text"`
	TokenCount int         `json:"token_count"`
	Order      int         `json:"order"`
	CreatedAt  time.Time   `json:"created_at,omitempty"`
}
