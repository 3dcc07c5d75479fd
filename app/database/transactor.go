package database

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn inside a database transaction. Returning an error from fn
// rolls the transaction back.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor backed by gorm
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// NoopTransactor calls fn with a nil handle. Used with in-memory repositories
// whose WithTx ignores the handle.
type NoopTransactor struct{}

func (NoopTransactor) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
