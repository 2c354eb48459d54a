package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventAccountConfirmed       EventType = "account_confirmed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetFailed    EventType = "password_reset_failed"
	EventNonsigCreated          EventType = "nonsig_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Email     string      `json:"email,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username          string `json:"username"`
	ConfirmationToken string `json:"confirmation_token"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PasswordResetFailedPayload payload.
type PasswordResetFailedPayload struct {
	Reason string `json:"reason"`
}

// NonsigCreatedPayload payload.
type NonsigCreatedPayload struct {
	Code       string `json:"code"`
	TradeStyle string `json:"trade_style"`
}
