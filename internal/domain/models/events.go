package models

import "time"

type EventType string

const (
	EventDataRefreshed   EventType = "data.refreshed"
	EventSignalCompleted EventType = "signal.completed"
	EventSignalsReloaded EventType = "signals.reloaded"
)

// Event is pushed to subscribers when simulated data changes. Consumers should
// treat it as "something changed" and re-read.
type Event struct {
	Type   EventType `json:"type"`
	Tick   uint64    `json:"tick,omitempty"`
	At     time.Time `json:"at"`
	Signal *Signal   `json:"signal,omitempty"`
}
