package models

import "errors"

var (
	ErrInvalidTeamName    = errors.New("invalid team name")
	ErrInvalidEventStatus = errors.New("invalid event status")
	ErrInvalidScore       = errors.New("score cannot be negative")
	ErrScoreWithoutFinish = errors.New("full-time score requires a finished event")
	ErrMissingFullTime    = errors.New("finished event requires a full-time score")
	ErrHalfTimeNotAllowed = errors.New("half-time score cannot be recorded for this event status")
	ErrEventNotCancelled  = errors.New("event is not cancelled")
	ErrEventAlreadyFinal  = errors.New("event is already finished or cancelled")
	ErrResultConflict     = errors.New("event already has a different final result")
	ErrTeamMismatch       = errors.New("result team labels do not match the event")

	ErrInvalidStakeAmount    = errors.New("invalid stake amount")
	ErrInvalidOdds           = errors.New("odds must be greater than 1")
	ErrInvalidWagerKind      = errors.New("invalid wager kind")
	ErrMissingDescription    = errors.New("wager description is required")
	ErrParlayWithEventRef    = errors.New("parlay wager cannot reference a single event")
	ErrParlayWithoutLegs     = errors.New("parlay wager requires at least two selections")
	ErrWagerAlreadySettled   = errors.New("wager is already settled")
	ErrConcurrentSettlement  = errors.New("wager was settled by a concurrent run")
	ErrInvalidSettlementType = errors.New("invalid settlement type")
	ErrInvalidWagerID        = errors.New("invalid wager ID")
	ErrInvalidEventID        = errors.New("invalid event ID")

	ErrInvalidCurrencyCode  = errors.New("invalid currency code")
	ErrInvalidWalletBalance = errors.New("invalid wallet balance")
	ErrNegativeBalance      = errors.New("balance cannot be negative")
	ErrWalletNotFound       = errors.New("wallet not found")

	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	ErrInvalidAuditAction  = errors.New("invalid audit action")
	ErrInvalidResourceType = errors.New("invalid resource type")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrInvalidCacheTTL                 = errors.New("cache ttl must be positive")
	ErrInvalidBatchSize                = errors.New("batch size must be positive")
	ErrInvalidKafkaTopic               = errors.New("kafka topic is required when brokers are configured")
	ErrInvalidDescriptionLength        = errors.New("max description length cannot be negative")
	ErrMissingAdminKey                 = errors.New("admin api key is required")

	ErrInvalidUserID  = errors.New("invalid user ID")
	ErrRecordNotFound = errors.New("record not found")
)
