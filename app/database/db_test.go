package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/joefazee/sportsbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db, mock
}

func TestConfig(t *testing.T) {
	c := &Config{Host: "db", Port: "5432", User: "u", Password: "p", Database: "sportsbook"}
	assert.NoError(t, c.Validate())
	assert.Equal(t, "host=db user=u password=p dbname=sportsbook port=5432 sslmode=disable", c.DSN())

	assert.Equal(t, "postgres://u:p@db:5432/sportsbook?sslmode=disable", c.URL())

	c.UseSSL = true
	assert.Contains(t, c.DSN(), "sslmode=require")

	c.Password = "p@ss/word"
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/sportsbook?sslmode=require", c.URL())

	c.Password = ""
	assert.Equal(t, models.ErrDatabaseCredentialNotConfigured, c.Validate())

	_, err := New(c)
	assert.ErrorIs(t, err, models.ErrDatabaseCredentialNotConfigured)
}

func TestMigrate_MissingSource(t *testing.T) {
	err := Migrate("postgres://u:p@127.0.0.1:1/none?sslmode=disable", t.TempDir()+"/absent")
	assert.ErrorContains(t, err, "failed to create migrator")
}

func TestTransactor(t *testing.T) {
	t.Run("Commits on success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "wagers"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewTransactor(db).InTx(context.Background(), func(tx *gorm.DB) error {
			return tx.Exec(`UPDATE "wagers" SET status = ?`, "won").Error
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := NewTransactor(db).InTx(context.Background(), func(*gorm.DB) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Noop passes nil handle", func(t *testing.T) {
		called := false
		err := NoopTransactor{}.InTx(context.Background(), func(tx *gorm.DB) error {
			called = true
			assert.Nil(t, tx)
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, called)
	})
}

func TestPing(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectPing()
	assert.NoError(t, Ping(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
