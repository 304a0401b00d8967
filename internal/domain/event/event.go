package event

import (
	"context"
	"time"
)

type Type string

const (
	TypeLoanApplication Type = "loanApplication"
	TypeLoanApproval    Type = "loanApproval"
	TypeLoanRejection   Type = "loanRejection"
	TypeLoanPayment     Type = "loanPayment"
	TypeLoanDefault     Type = "loanDefault"
	TypeInterestRule    Type = "interestRule"
)

// Event is a lifecycle notification. UserID is the borrower it concerns, if any.
type Event struct {
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	UserID     string         `json:"user_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Sink receives events after the mutation that produced them has committed.
// Emit is fire-and-forget: delivery failures are the sink's problem.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(context.Context, Event) {}
