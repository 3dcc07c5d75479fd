package suites

import (
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"github.com/shopspring/decimal"
)

// SeedEvent inserts a finished event with the given full-time score
func (suite *RepositoryTestSuite) SeedEvent(home, away string, homeGoals, awayGoals int) *models.Event {
	e := &models.Event{
		HomeTeam: home,
		AwayTeam: away,
		Status:   models.EventStatusLive,
		StartsAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	suite.Require().NoError(e.Finish(models.Score{Home: homeGoals, Away: awayGoals}, time.Now().UTC()))
	suite.Require().NoError(suite.DB.Create(e).Error)
	return e
}

// SeedWallet inserts a wallet holding balance
func (suite *RepositoryTestSuite) SeedWallet(userID uuid.UUID, currency string, balance decimal.Decimal) *models.Wallet {
	w := &models.Wallet{UserID: userID, CurrencyCode: currency, Balance: balance}
	suite.Require().NoError(suite.DB.Create(w).Error)
	return w
}

// SeedWager inserts an open single wager. A nil eventID makes it a legacy
// wager matched through its description.
func (suite *RepositoryTestSuite) SeedWager(userID uuid.UUID, eventID *uuid.UUID, market, selection, description string, stake, odds decimal.Decimal) *models.Wager {
	w := &models.Wager{
		UserID:          userID,
		Kind:            models.WagerKindSingle,
		Stake:           stake,
		Odds:            odds,
		PotentialPayout: models.CalculatePotentialPayout(stake, odds),
		EventID:         eventID,
		Market:          market,
		Selection:       selection,
		Description:     description,
		Status:          models.WagerStatusPending,
	}
	suite.Require().NoError(suite.DB.Create(w).Error)
	return w
}

// SeedParlay inserts an open parlay over the given legs
func (suite *RepositoryTestSuite) SeedParlay(userID uuid.UUID, stake decimal.Decimal, legs ...models.Selection) *models.Wager {
	odds := decimal.NewFromInt(1)
	for _, leg := range legs {
		odds = odds.Mul(leg.Odds)
	}
	w := &models.Wager{
		UserID:          userID,
		Kind:            models.WagerKindParlay,
		Stake:           stake,
		Odds:            odds,
		PotentialPayout: models.CalculatePotentialPayout(stake, odds),
		Description:     "parlay",
		Status:          models.WagerStatusPending,
		Selections:      legs,
	}
	suite.Require().NoError(suite.DB.Create(w).Error)
	return w
}
