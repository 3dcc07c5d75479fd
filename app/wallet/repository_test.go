package wallet

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestRepository_IncrementBalance(t *testing.T) {
	userID := uuid.New()
	walletID := uuid.New()
	amount := decimal.NewFromInt(25)

	t.Run("Relative update then read back", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "wallets" SET "balance"=balance \+ \$1,"updated_at"=\$2 WHERE user_id = \$3 AND currency_code = \$4`).
			WithArgs(amount, sqlmock.AnyArg(), userID, "NGN").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = \$1 AND currency_code = \$2`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "currency_code", "balance"}).
				AddRow(walletID, userID, "NGN", "125.00"))

		wallet, err := repo.IncrementBalance(context.Background(), userID, "NGN", amount)
		require.NoError(t, err)
		assert.Equal(t, walletID, wallet.ID)
		assert.True(t, decimal.NewFromInt(125).Equal(wallet.Balance))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing wallet", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "wallets"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		_, err := repo.IncrementBalance(context.Background(), userID, "NGN", amount)
		assert.ErrorIs(t, err, models.ErrWalletNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CreateTransactionValidates(t *testing.T) {
	repo, mock := setupMockRepo(t)

	err := repo.CreateTransaction(context.Background(), &models.Transaction{})
	assert.ErrorIs(t, err, models.ErrInvalidUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateWalletValidates(t *testing.T) {
	repo, _ := setupMockRepo(t)

	err := repo.CreateWallet(context.Background(), &models.Wallet{UserID: uuid.New(), CurrencyCode: "NG"})
	assert.ErrorIs(t, err, models.ErrInvalidCurrencyCode)
}

func TestRepository_ListUserTransactions(t *testing.T) {
	userID, eventID := uuid.New(), uuid.New()

	t.Run("Filters by type and event", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE user_id = \$1 AND transaction_type = \$2 AND metadata->>'event_id' = \$3 ORDER BY created_at DESC LIMIT \$4 OFFSET \$5`).
			WithArgs(userID, "payout", eventID.String(), 5, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "transaction_type", "amount"}).
				AddRow(uuid.New(), userID, "payout", "40.00"))

		rows, err := repo.ListUserTransactions(context.Background(), userID,
			LedgerFilter{Type: models.TransactionTypePayout, EventID: &eventID}, 5, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, decimal.NewFromInt(40).Equal(rows[0].Amount))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty filter scopes to the user only", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs(userID, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		rows, err := repo.ListUserTransactions(context.Background(), userID, LedgerFilter{}, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SumUserCredits(t *testing.T) {
	repo, mock := setupMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT transaction_type, SUM\(amount\) AS total FROM "transactions" WHERE user_id = \$1 GROUP BY "?transaction_type"?`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"transaction_type", "total"}).
			AddRow("payout", "150.50").
			AddRow("wager_refund", "20.00"))

	totals, err := repo.SumUserCredits(context.Background(), userID, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, models.TransactionTypePayout, totals[0].TransactionType)
	assert.True(t, decimal.RequireFromString("150.50").Equal(totals[0].Total))
	assert.True(t, decimal.NewFromInt(20).Equal(totals[1].Total))
	assert.NoError(t, mock.ExpectationsWereMet())
}
