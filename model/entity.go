package model

import "time"

// Entity represents a named entity (person, place, concept, etc.) derived by
// downstream extraction. The chunking core only provides the storage target.
type Entity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"entity_type"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
