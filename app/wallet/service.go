package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	CreateWallet(ctx context.Context, req *CreateWalletRequest) (*Response, error)
	GetUserWallets(ctx context.Context, userID uuid.UUID) ([]Response, error)

	// GetUserLedger lists the payouts and refunds settlement credited to a
	// user, newest first.
	GetUserLedger(ctx context.Context, userID uuid.UUID, query *LedgerQuery) (*LedgerResponse, error)

	// Credit applies a settlement credit inside tx. A nil tx uses the
	// service's own connection.
	Credit(ctx context.Context, tx *gorm.DB, req *CreditRequest) (*models.Transaction, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateWallet(ctx context.Context, req *CreateWalletRequest) (*Response, error) {
	existing, err := s.repo.GetWalletByUserAndCurrency(ctx, req.UserID, req.CurrencyCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing wallet: %w", err)
	}
	if existing != nil {
		return nil, ErrWalletExists
	}

	wallet := &models.Wallet{
		UserID:       req.UserID,
		CurrencyCode: req.CurrencyCode,
		Balance:      req.OpeningBalance,
	}

	if err := s.repo.CreateWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return ToWalletResponse(wallet), nil
}

func (s *service) GetUserWallets(ctx context.Context, userID uuid.UUID) ([]Response, error) {
	wallets, err := s.repo.GetUserWallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user wallets: %w", err)
	}

	responses := make([]Response, len(wallets))
	for i := range wallets {
		responses[i] = *ToWalletResponse(&wallets[i])
	}

	return responses, nil
}

const defaultLedgerPage = 20

func (s *service) GetUserLedger(ctx context.Context, userID uuid.UUID, query *LedgerQuery) (*LedgerResponse, error) {
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultLedgerPage
	}
	offset := max(query.Offset, 0)
	filter := query.Filter()

	rows, err := s.repo.ListUserTransactions(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	totals, err := s.repo.SumUserCredits(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to total ledger: %w", err)
	}

	ledger := &LedgerResponse{
		UserID:        userID,
		TotalPaidOut:  decimal.Zero,
		TotalRefunded: decimal.Zero,
		Entries:       make([]TransactionResponse, len(rows)),
	}
	for i := range rows {
		ledger.Entries[i] = *ToTransactionResponse(&rows[i])
	}
	for _, t := range totals {
		switch t.TransactionType {
		case models.TransactionTypePayout:
			ledger.TotalPaidOut = t.Total
		case models.TransactionTypeWagerRefund:
			ledger.TotalRefunded = t.Total
		}
	}

	return ledger, nil
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, req *CreditRequest) (*models.Transaction, error) {
	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, models.ErrInvalidTransactionAmount
	}
	if req.Type != models.TransactionTypePayout && req.Type != models.TransactionTypeWagerRefund {
		return nil, models.ErrInvalidTransactionType
	}

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	wallet, err := repo.IncrementBalance(ctx, req.UserID, req.CurrencyCode, req.Amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrWalletNotFound
		}
		return nil, err
	}

	entry := models.CreatePayoutTransaction(req.UserID, wallet.ID, req.Amount, wallet.Balance, req.WagerID)
	if req.Type == models.TransactionTypeWagerRefund {
		entry = models.CreateWagerRefundTransaction(req.UserID, wallet.ID, req.Amount, wallet.Balance, req.WagerID)
	}
	entry.Metadata = models.TransactionMetadata{
		EventID: req.EventID,
		Trigger: req.Trigger,
		Notes:   req.Notes,
	}

	if err := repo.CreateTransaction(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return entry, nil
}
