package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionMetadata(t *testing.T) {
	eventID := uuid.New()
	md := TransactionMetadata{EventID: &eventID, Trigger: "admin", Notes: "ft 2-1"}

	value, err := md.Value()
	assert.NoError(t, err)

	var result TransactionMetadata
	assert.NoError(t, result.Scan(value))
	assert.Equal(t, eventID, *result.EventID)
	assert.Equal(t, "admin", result.Trigger)

	assert.NoError(t, result.Scan(string(value.([]byte))))
	assert.NoError(t, result.Scan(nil))
}

func TestTransaction(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		tx := Transaction{}
		assert.Equal(t, "transactions", tx.TableName())
	})

	t.Run("CreatePayoutTransaction", func(t *testing.T) {
		wagerID := uuid.New()
		tx := CreatePayoutTransaction(uuid.New(), uuid.New(), decimal.NewFromInt(25), decimal.NewFromInt(125), wagerID)
		assert.Equal(t, TransactionTypePayout, tx.TransactionType)
		assert.True(t, tx.BalanceBefore.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "wager", tx.ReferenceType)
		assert.Equal(t, wagerID, *tx.ReferenceID)
		assert.True(t, tx.IsBalanceConsistent())
		assert.NoError(t, tx.Validate())
	})

	t.Run("CreateWagerRefundTransaction", func(t *testing.T) {
		tx := CreateWagerRefundTransaction(uuid.New(), uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(10), uuid.New())
		assert.Equal(t, TransactionTypeWagerRefund, tx.TransactionType)
		assert.True(t, tx.BalanceBefore.IsZero())
		assert.NoError(t, tx.Validate())
	})

	t.Run("Validate", func(t *testing.T) {
		base := func() *Transaction {
			return CreatePayoutTransaction(uuid.New(), uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(5), uuid.New())
		}

		tx := base()
		tx.UserID = uuid.Nil
		assert.Equal(t, ErrInvalidUserID, tx.Validate())

		tx = base()
		tx.WalletID = uuid.Nil
		assert.Equal(t, ErrInvalidWalletBalance, tx.Validate())

		tx = base()
		tx.TransactionType = "deposit"
		assert.Equal(t, ErrInvalidTransactionType, tx.Validate())

		tx = base()
		tx.Amount = decimal.Zero
		assert.Equal(t, ErrInvalidTransactionAmount, tx.Validate())

		tx = base()
		tx.BalanceAfter = decimal.NewFromInt(7)
		assert.Equal(t, ErrInvalidTransactionAmount, tx.Validate())
	})
}
