package models

import "time"

// BroadcastRequest is the SOS payload. It only lives for the duration of a dispatch.
type BroadcastRequest struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Location    Coordinates `json:"location"`
	SentAt      time.Time   `json:"sent_at"`
}

// BroadcastKind distinguishes the SOS broadcast from the emergency trigger.
type BroadcastKind string

const (
	KindBroadcast BroadcastKind = "broadcast"
	KindTrigger   BroadcastKind = "trigger"
)

// BroadcastRecord is a journal entry for one dispatch attempt.
type BroadcastRecord struct {
	ID          string        `json:"id"`
	Kind        BroadcastKind `json:"kind"`
	Description string        `json:"description"`
	Location    Coordinates   `json:"location"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
