package models_test

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestRecurringTransactionFrequencyInvalid() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	err := models.DB.Create(&models.RecurringTransaction{
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     decimal.NewFromFloat(9.99),
		Frequency:  "weekly",
		DayOfMonth: 15,
		StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}).Error
	suite.Assert().True(errors.Is(err, models.ErrRecurringFrequencyInvalid), "Wrong error for invalid frequency: %v", err)
}

func (suite *TestSuiteStandard) TestRecurringTransactionDayOfMonthInvalid() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	for _, day := range []int{0, 32, -1} {
		err := models.DB.Create(&models.RecurringTransaction{
			AccountID:  account.ID,
			CategoryID: category.ID,
			Amount:     decimal.NewFromFloat(9.99),
			Frequency:  models.RecurringFrequencyMonthly,
			DayOfMonth: day,
			StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		}).Error
		suite.Assert().True(errors.Is(err, models.ErrRecurringDayOfMonthInvalid), "Wrong error for day %d: %v", day, err)
	}
}

func (suite *TestSuiteStandard) TestRecurringTransactionAmountPositive() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	err := models.DB.Create(&models.RecurringTransaction{
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     decimal.NewFromFloat(-9.99),
		Frequency:  models.RecurringFrequencyMonthly,
		DayOfMonth: 15,
		StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}).Error
	suite.Assert().True(errors.Is(err, models.ErrAmountNotPositive), "Wrong error for negative amount: %v", err)
}

// TestRecurringTransactionNextDueDefault verifies that a template without
// an explicit next due date is first due on its start date.
func (suite *TestSuiteStandard) TestRecurringTransactionNextDueDefault() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	recurringTransaction := suite.createTestRecurringTransaction(models.RecurringTransaction{
		AccountID:  account.ID,
		CategoryID: category.ID,
		StartDate:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})

	suite.Assert().True(recurringTransaction.NextDue.Equal(recurringTransaction.StartDate), "NextDue must default to the start date, got %s", recurringTransaction.NextDue)
}

func (suite *TestSuiteStandard) TestRecurringTransactionAccountRequired() {
	category := suite.createTestCategory(models.Category{})

	err := models.DB.Create(&models.RecurringTransaction{
		AccountID:  uuid.New(),
		CategoryID: category.ID,
		Amount:     decimal.NewFromFloat(9.99),
		Frequency:  models.RecurringFrequencyMonthly,
		DayOfMonth: 15,
		StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}).Error
	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound), "Wrong error for missing account: %v", err)
}

func (suite *TestSuiteStandard) TestRecurringTransactionCategoryRequired() {
	account := suite.createTestAccount(models.Account{})

	err := models.DB.Create(&models.RecurringTransaction{
		AccountID:  account.ID,
		CategoryID: uuid.New(),
		Amount:     decimal.NewFromFloat(9.99),
		Frequency:  models.RecurringFrequencyMonthly,
		DayOfMonth: 15,
		StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}).Error
	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound), "Wrong error for missing category: %v", err)
}

// TestRecurringTransactionTrimWhitespace verifies that description and
// vendor are trimmed on save.
func (suite *TestSuiteStandard) TestRecurringTransactionTrimWhitespace() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{})

	recurringTransaction := suite.createTestRecurringTransaction(models.RecurringTransaction{
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Description: " Monthly subscription ",
		Vendor:      " Netflix ",
	})

	suite.Assert().Equal("Monthly subscription", recurringTransaction.Description)
	suite.Assert().Equal("Netflix", recurringTransaction.Vendor)
}
