package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
)

// Per-wager result states folded into a Report
const (
	StatusSettled = "settled"
	StatusSkipped = "skipped"
	StatusNoop    = "noop"
	StatusFailed  = "failed"
)

// WagerResult is the outcome of one wager inside a settlement run
type WagerResult struct {
	WagerID uuid.UUID        `json:"wager_id"`
	Kind    models.WagerKind `json:"kind"`
	Status  string           `json:"status"`
	Pick    string           `json:"pick,omitempty"`
	Outcome string           `json:"outcome,omitempty"`
	Payout  decimal.Decimal  `json:"payout"`
	Reason  string           `json:"reason,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Report summarizes a settlement run. EventID is nil for parlay sweeps.
type Report struct {
	EventID    *uuid.UUID               `json:"event_id,omitempty"`
	Trigger    models.SettlementTrigger `json:"trigger"`
	Settled    int                      `json:"settled"`
	Skipped    int                      `json:"skipped"`
	Noop       int                      `json:"noop"`
	Errors     []string                 `json:"errors"`
	Results    []WagerResult            `json:"results"`
	InProgress bool                     `json:"in_progress"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
}

func newReport(eventID *uuid.UUID, trigger models.SettlementTrigger, at time.Time) *Report {
	return &Report{
		EventID:   eventID,
		Trigger:   trigger,
		Errors:    []string{},
		Results:   []WagerResult{},
		StartedAt: at,
	}
}

func (r *Report) add(res WagerResult) {
	switch res.Status {
	case StatusSettled:
		r.Settled++
	case StatusSkipped:
		r.Skipped++
	case StatusNoop:
		r.Noop++
	case StatusFailed:
		r.Errors = append(r.Errors, res.WagerID.String()+": "+res.Error)
	}
	r.Results = append(r.Results, res)
}

// TotalPaid sums the credits made during the run
func (r *Report) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Results {
		if r.Results[i].Status == StatusSettled {
			total = total.Add(r.Results[i].Payout)
		}
	}
	return total
}

// WagerSettled is published once a wager transition has committed
type WagerSettled struct {
	WagerID        uuid.UUID                `json:"wager_id"`
	UserID         uuid.UUID                `json:"user_id"`
	EventID        *uuid.UUID               `json:"event_id,omitempty"`
	Kind           models.WagerKind         `json:"kind"`
	SettlementType models.SettlementType    `json:"settlement_type"`
	Stake          decimal.Decimal          `json:"stake"`
	Payout         decimal.Decimal          `json:"payout"`
	Trigger        models.SettlementTrigger `json:"trigger"`
	SettledAt      time.Time                `json:"settled_at"`
}

// Response represents a settlement record in API responses
type Response struct {
	ID             uuid.UUID                `json:"id"`
	WagerID        uuid.UUID                `json:"wager_id"`
	UserID         uuid.UUID                `json:"user_id"`
	EventID        *uuid.UUID               `json:"event_id"`
	SettlementType models.SettlementType    `json:"settlement_type"`
	Market         string                   `json:"market"`
	Selection      string                   `json:"selection"`
	Stake          decimal.Decimal          `json:"stake"`
	PayoutAmount   decimal.Decimal          `json:"payout_amount"`
	NetAmount      decimal.Decimal          `json:"net_amount"`
	Trace          string                   `json:"trace"`
	Trigger        models.SettlementTrigger `json:"trigger"`
	TransactionID  *uuid.UUID               `json:"transaction_id"`
	CreatedAt      time.Time                `json:"created_at"`
}

// ToResponse converts a models.Settlement to Response
func ToResponse(s *models.Settlement) *Response {
	return &Response{
		ID:             s.ID,
		WagerID:        s.WagerID,
		UserID:         s.UserID,
		EventID:        s.EventID,
		SettlementType: s.SettlementType,
		Market:         s.Market,
		Selection:      s.Selection,
		Stake:          s.Stake,
		PayoutAmount:   s.PayoutAmount,
		NetAmount:      s.GetNetAmount(),
		Trace:          s.Trace,
		Trigger:        s.Trigger,
		TransactionID:  s.TransactionID,
		CreatedAt:      s.CreatedAt,
	}
}

func newWagerSettled(w *models.Wager, kind models.SettlementType, trigger models.SettlementTrigger) *WagerSettled {
	msg := &WagerSettled{
		WagerID:        w.ID,
		UserID:         w.UserID,
		EventID:        w.EventID,
		Kind:           w.Kind,
		SettlementType: kind,
		Stake:          w.Stake,
		Payout:         w.SettledPayout,
		Trigger:        trigger,
	}
	if w.SettledAt != nil {
		msg.SettledAt = *w.SettledAt
	}
	return msg
}
