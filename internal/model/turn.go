package model

// TurnStatus is the outcome class of one assistant turn.
type TurnStatus string

// Every turn resolves to exactly one of these statuses, regardless of
// transport.
const (
	StatusSuccess TurnStatus = "success"
	StatusPending TurnStatus = "pending"
	StatusError   TurnStatus = "error"
)

// TurnResult is the uniform response produced by the assistant for every
// inbound message: a status, a human-readable message, and on a successful
// commit the persisted record.
type TurnResult struct {
	Data    any        `json:"data,omitempty"`
	Status  TurnStatus `json:"status"`
	Message string     `json:"message"`
}

// Pending builds a pending-status result.
func Pending(message string) TurnResult {
	return TurnResult{Status: StatusPending, Message: message}
}

// Error builds an error-status result.
func Error(message string) TurnResult {
	return TurnResult{Status: StatusError, Message: message}
}

// Success builds a success-status result with optional payload.
func Success(message string, data any) TurnResult {
	return TurnResult{Status: StatusSuccess, Message: message, Data: data}
}
