package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	GetWalletByUserAndCurrency(ctx context.Context, userID uuid.UUID, currencyCode string) (*models.Wallet, error)
	GetUserWallets(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error)
	IncrementBalance(ctx context.Context, userID uuid.UUID, currencyCode string, amount decimal.Decimal) (*models.Wallet, error)

	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	ListUserTransactions(ctx context.Context, userID uuid.UUID, filter LedgerFilter, limit, offset int) ([]models.Transaction, error)
	SumUserCredits(ctx context.Context, userID uuid.UUID, filter LedgerFilter) ([]CreditTotal, error)

	WithTx(tx *gorm.DB) Repository
}

// LedgerFilter narrows the ledger rows of one user. Zero fields match everything.
type LedgerFilter struct {
	Type    models.TransactionType
	EventID *uuid.UUID
}

// CreditTotal is the summed amount of one transaction type
type CreditTotal struct {
	TransactionType models.TransactionType
	Total           decimal.Decimal
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if err := wallet.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *repository) GetWalletByUserAndCurrency(ctx context.Context, userID uuid.UUID, currencyCode string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND currency_code = ?", userID, currencyCode).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) GetUserWallets(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency_code ASC").
		Find(&wallets).Error
	return wallets, err
}

// IncrementBalance adds amount with a relative UPDATE so concurrent credits
// never overwrite each other, then reads the wallet back.
func (r *repository) IncrementBalance(ctx context.Context, userID uuid.UUID, currencyCode string, amount decimal.Decimal) (*models.Wallet, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND currency_code = ?", userID, currencyCode).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrWalletNotFound
	}

	return r.GetWalletByUserAndCurrency(ctx, userID, currencyCode)
}

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) ledger(ctx context.Context, userID uuid.UUID, filter LedgerFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", filter.Type)
	}
	if filter.EventID != nil {
		q = q.Where("metadata->>'event_id' = ?", filter.EventID.String())
	}
	return q
}

func (r *repository) ListUserTransactions(ctx context.Context, userID uuid.UUID, filter LedgerFilter, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.ledger(ctx, userID, filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

// SumUserCredits totals the whole filtered ledger per transaction type,
// independent of any page window.
func (r *repository) SumUserCredits(ctx context.Context, userID uuid.UUID, filter LedgerFilter) ([]CreditTotal, error) {
	var totals []CreditTotal
	err := r.ledger(ctx, userID, filter).
		Select("transaction_type, SUM(amount) AS total").
		Group("transaction_type").
		Scan(&totals).Error
	return totals, err
}
