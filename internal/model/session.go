package model

import "github.com/shopspring/decimal"

// ChatSession accumulates partially-entered income fields across a
// multi-turn dialogue. At most one session exists per user at any time;
// it lives from the first unresolved message until commit, cancellation,
// or store expiry.
//
// Fields are monotonic: once set they are only ever replaced by another
// non-nil value, never reverted to nil by a later turn. The one exception
// is Date, which is cleared when the user supplies a syntactically invalid
// full date so the dialogue can make forward progress.
type ChatSession struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
	UserID      string           `json:"userId"`
	Confirmed   bool             `json:"confirmed"`
}

// NewChatSession returns an empty session for the given user.
func NewChatSession(userID string) *ChatSession {
	return &ChatSession{UserID: userID}
}

// MissingFields returns the names of the fields still unset, in the order
// they are reported to the user.
func (s *ChatSession) MissingFields() []string {
	var missing []string
	if s.Amount == nil {
		missing = append(missing, "amount")
	}
	if s.Description == nil {
		missing = append(missing, "description")
	}
	if s.Date == nil {
		missing = append(missing, "date")
	}
	return missing
}

// Complete reports whether every field required for a commit is present.
func (s *ChatSession) Complete() bool {
	return s.Amount != nil && s.Description != nil && s.Date != nil
}
