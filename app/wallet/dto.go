package wallet

import (
	"errors"
	"time"

	"github.com/joefazee/sportsbook/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrWalletExists is returned when a user already holds a wallet in the currency
var ErrWalletExists = errors.New("wallet already exists for this user and currency")

// CreateWalletRequest represents the request to create a wallet
type CreateWalletRequest struct {
	UserID         uuid.UUID       `json:"user_id" binding:"required"`
	CurrencyCode   string          `json:"currency_code" binding:"required,len=3"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CreditRequest describes a settlement credit against a user's wallet
type CreditRequest struct {
	UserID       uuid.UUID
	CurrencyCode string
	Amount       decimal.Decimal
	Type         models.TransactionType
	WagerID      uuid.UUID
	EventID      *uuid.UUID
	Trigger      string
	Notes        string
}

// Response represents a wallet in API responses
type Response struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	CurrencyCode string          `json:"currency_code"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID                  `json:"id"`
	UserID          uuid.UUID                  `json:"user_id"`
	WalletID        uuid.UUID                  `json:"wallet_id"`
	TransactionType models.TransactionType     `json:"transaction_type"`
	Amount          decimal.Decimal            `json:"amount"`
	BalanceBefore   decimal.Decimal            `json:"balance_before"`
	BalanceAfter    decimal.Decimal            `json:"balance_after"`
	ReferenceType   string                     `json:"reference_type"`
	ReferenceID     *uuid.UUID                 `json:"reference_id"`
	Description     string                     `json:"description"`
	Metadata        models.TransactionMetadata `json:"metadata"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// LedgerQuery is the query string of the user ledger route
type LedgerQuery struct {
	Type    string `form:"type" binding:"omitempty,oneof=payout wager_refund"`
	EventID string `form:"event_id" binding:"omitempty,uuid"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
}

// Filter converts the query into repository terms
func (q *LedgerQuery) Filter() LedgerFilter {
	filter := LedgerFilter{Type: models.TransactionType(q.Type)}
	if id, err := uuid.Parse(q.EventID); err == nil {
		filter.EventID = &id
	}
	return filter
}

// LedgerResponse is a page of a user's settlement credits. The totals cover
// every row the filter matches, not only the page.
type LedgerResponse struct {
	UserID        uuid.UUID             `json:"user_id"`
	TotalPaidOut  decimal.Decimal       `json:"total_paid_out"`
	TotalRefunded decimal.Decimal       `json:"total_refunded"`
	Entries       []TransactionResponse `json:"entries"`
}

// ToWalletResponse converts a models.Wallet to Response
func ToWalletResponse(wallet *models.Wallet) *Response {
	return &Response{
		ID:           wallet.ID,
		UserID:       wallet.UserID,
		CurrencyCode: wallet.CurrencyCode,
		Balance:      wallet.Balance,
		CreatedAt:    wallet.CreatedAt,
		UpdatedAt:    wallet.UpdatedAt,
	}
}

// ToTransactionResponse converts a models.Transaction to TransactionResponse
func ToTransactionResponse(transaction *models.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              transaction.ID,
		UserID:          transaction.UserID,
		WalletID:        transaction.WalletID,
		TransactionType: transaction.TransactionType,
		Amount:          transaction.Amount,
		BalanceBefore:   transaction.BalanceBefore,
		BalanceAfter:    transaction.BalanceAfter,
		ReferenceType:   transaction.ReferenceType,
		ReferenceID:     transaction.ReferenceID,
		Description:     transaction.Description,
		Metadata:        transaction.Metadata,
		CreatedAt:       transaction.CreatedAt,
	}
}
