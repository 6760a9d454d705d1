package entities

import (
	"errors"
	"strings"
)

// RequestType identifies the kind of inbound skill request
type RequestType string

const (
	RequestTypeLaunch       RequestType = "LaunchRequest"
	RequestTypeIntent       RequestType = "IntentRequest"
	RequestTypeSessionEnded RequestType = "SessionEndedRequest"
)

// Intent names handled by the skill
const (
	IntentStory  = "StoryIntent"
	IntentHelp   = "AMAZON.HelpIntent"
	IntentCancel = "AMAZON.CancelIntent"
	IntentStop   = "AMAZON.StopIntent"
)

// RequestEnvelope is the JSON body the voice platform posts to the skill
type RequestEnvelope struct {
	Version string  `json:"version"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

// Session carries the platform-managed conversation context
type Session struct {
	New         bool        `json:"new"`
	SessionID   string      `json:"sessionId"`
	Application Application `json:"application"`
}

// Application identifies the skill the request was routed to
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// Request is the typed part of the envelope
type Request struct {
	Type      RequestType `json:"type"`
	RequestID string      `json:"requestId"`
	Timestamp string      `json:"timestamp,omitempty"`
	Locale    string      `json:"locale,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Intent    *Intent     `json:"intent,omitempty"`
}

// Intent is set only for IntentRequest
type Intent struct {
	Name  string `json:"name"`
	Slots Slots  `json:"slots,omitempty"`
}

// Slot is a named intent parameter. Value is empty when the user did not fill it.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Slots maps slot name to slot
type Slots map[string]Slot

// Value returns the slot value and whether it was present and non-empty.
func (s Slots) Value(name string) (string, bool) {
	slot, ok := s[name]
	if !ok || slot.Value == "" {
		return "", false
	}
	return slot.Value, true
}

// ValueOr returns the slot value or def when it is absent or empty.
func (s Slots) ValueOr(name, def string) string {
	if v, ok := s.Value(name); ok {
		return v
	}
	return def
}

// IntentName returns the intent name for IntentRequest, empty otherwise.
func (r Request) IntentName() string {
	if r.Type != RequestTypeIntent || r.Intent == nil {
		return ""
	}
	return r.Intent.Name
}

// IntentSlots returns the intent slots, nil when the request carries no intent.
func (r Request) IntentSlots() Slots {
	if r.Intent == nil {
		return nil
	}
	return r.Intent.Slots
}

// Validate checks the minimum shape needed for dispatch
func (e *RequestEnvelope) Validate() error {
	if strings.TrimSpace(string(e.Request.Type)) == "" {
		return errors.New("request.type is required")
	}
	if e.Request.Type == RequestTypeIntent && (e.Request.Intent == nil || e.Request.Intent.Name == "") {
		return errors.New("request.intent.name is required for IntentRequest")
	}
	return nil
}
