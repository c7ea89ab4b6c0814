// Package livesync propagates authoritative live state from the control
// process to output processes, and operator intent in reverse, over an
// asynchronous message channel. The event names and payloads here are the
// stable wire contract: they must survive process restarts on either side,
// because no shared in-memory state is ever assumed.
package livesync

import (
	"encoding/json"
	"fmt"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// EventType names one wire event.
type EventType string

const (
	// Control → output.
	EventPresentationUpdate EventType = "presentation-update"
	EventSlideChanged       EventType = "slide-changed"
	EventStateChanged       EventType = "state-changed"

	// Output → control. Outputs send intent, never document mutations.
	EventRequestState EventType = "request-state"
	EventAdvance      EventType = "advance"
	EventRetreat      EventType = "retreat"
)

// Envelope frames every message on the wire.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PresentationUpdate replaces the output's document replica wholesale.
// A nil Presentation means "no document": outputs render blank.
type PresentationUpdate struct {
	Presentation   *models.Presentation `json:"presentation"`
	CurrentSlideID string               `json:"currentSlideId,omitempty"`
	Path           string               `json:"path,omitempty"`
}

// SlideChanged announces the current slide. A nil SlideID clears it.
// Receiving the same value twice resets the advance cursor both times.
type SlideChanged struct {
	SlideID *string `json:"slideId"`
}

// StateChanged carries the show state. VisibleLayerIDs nil means "derive the
// visible set locally from the default policy"; a non-nil empty list means
// no layers are visible. The two are deliberately not equivalent.
type StateChanged struct {
	IsBlackout      bool      `json:"isBlackout"`
	IsClear         bool      `json:"isClear"`
	VisibleLayerIDs *[]string `json:"visibleLayerIds"`
}

// Encode wraps a payload in an envelope.
func Encode(t EventType, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", t, err)
	}
	return Envelope{Type: t, Payload: raw}, nil
}

// MustEncode is Encode for payloads built from plain structs, where a
// marshal failure is a programming error.
func MustEncode(t EventType, payload any) Envelope {
	ev, err := Encode(t, payload)
	if err != nil {
		panic(err)
	}
	return ev
}
