package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abh2050/alexa-story-teller/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeSkillRequest  MessageType = "skill_request"
	MessageTypeSkillResponse MessageType = "skill_response"
	MessageTypePing          MessageType = "ping"
	MessageTypePong          MessageType = "pong"
	MessageTypeError         MessageType = "error"
)

// Error codes sent in ErrorMessage
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeUnknownType    = "unknown_type"
	ErrorCodeInvalidRequest = "invalid_request"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
	MessageID string      `json:"message_id,omitempty"`
}

// SkillRequestMessage carries a request envelope from a device
type SkillRequestMessage struct {
	BaseMessage
	Envelope entities.RequestEnvelope `json:"envelope"`
}

// SkillResponseMessage carries the response envelope back to the device
type SkillResponseMessage struct {
	BaseMessage
	Envelope entities.ResponseEnvelope `json:"envelope"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidationError carries the error code to report back to the device
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidateMessage decodes an incoming text frame into its typed message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, &ValidationError{Code: ErrorCodeInvalidMessage, Message: "message is not valid JSON"}
	}

	switch base.Type {
	case MessageTypeSkillRequest:
		var msg SkillRequestMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, &ValidationError{Code: ErrorCodeInvalidMessage, Message: "malformed skill request"}
		}
		if err := msg.Envelope.Validate(); err != nil {
			return nil, &ValidationError{Code: ErrorCodeInvalidRequest, Message: err.Error()}
		}
		return &msg, nil
	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, &ValidationError{Code: ErrorCodeInvalidMessage, Message: "malformed ping"}
		}
		return &msg, nil
	case "":
		return nil, &ValidationError{Code: ErrorCodeInvalidMessage, Message: "message type is required"}
	default:
		return nil, &ValidationError{Code: ErrorCodeUnknownType, Message: fmt.Sprintf("unknown message type %q", base.Type)}
	}
}

// NewErrorMessage creates an error reply
func NewErrorMessage(messageID, code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: newBase(MessageTypeError, messageID),
		Code:        code,
		Message:     message,
	}
}

// NewPongMessage answers a ping
func NewPongMessage(ping *PingMessage) *PongMessage {
	return &PongMessage{
		BaseMessage: newBase(MessageTypePong, ping.MessageID),
		Data:        ping.Data,
	}
}

// NewSkillResponseMessage wraps a response envelope
func NewSkillResponseMessage(messageID string, env entities.ResponseEnvelope) *SkillResponseMessage {
	return &SkillResponseMessage{
		BaseMessage: newBase(MessageTypeSkillResponse, messageID),
		Envelope:    env,
	}
}

func newBase(t MessageType, messageID string) BaseMessage {
	return BaseMessage{
		Type:      t,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		MessageID: messageID,
	}
}
