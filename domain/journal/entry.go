// Package journal provides the audit trail written while episodes run.
package journal

import (
	"encoding/json"
	"time"
)

// Entry is one journaled episode event.
type Entry struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`

	// EpisodeID is the episode this entry belongs to.
	EpisodeID string `json:"episode_id"`

	// Type classifies the entry.
	Type Type `json:"type"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Payload contains the type-specific data.
	Payload json.RawMessage `json:"payload"`

	// Sequence orders entries within an episode, starting at 1.
	Sequence uint64 `json:"sequence"`

	Version int `json:"version,omitempty"`
}

// NewEntry creates an entry with the payload encoded as JSON.
func NewEntry(episodeID string, t Type, payload any) (Entry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		EpisodeID: episodeID,
		Type:      t,
		Timestamp: time.Now(),
		Payload:   data,
		Version:   1,
	}, nil
}

// UnmarshalPayload decodes the entry payload into v.
func (e *Entry) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Validate checks the fields every store requires.
func (e Entry) Validate() error {
	if e.EpisodeID == "" || e.Type == "" {
		return ErrInvalidEntry
	}
	return nil
}
