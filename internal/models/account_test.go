package models_test

import (
	"errors"
	"time"

	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAccountTrimWhitespace() {
	account := suite.createTestAccount(models.Account{
		Name:        " Business Checking\t",
		Institution: " First National Bank ",
		LastFour:    " 1008 ",
		Note:        " Primary operating account ",
	})

	suite.Assert().Equal("Business Checking", account.Name)
	suite.Assert().Equal("First National Bank", account.Institution)
	suite.Assert().Equal("1008", account.LastFour)
	suite.Assert().Equal("Primary operating account", account.Note)
}

func (suite *TestSuiteStandard) TestAccountNameNotUnique() {
	_ = suite.createTestAccount(models.Account{Name: "Business Checking"})

	err := models.DB.Create(&models.Account{Name: "Business Checking"}).Error
	suite.Assert().True(errors.Is(err, models.ErrAccountNameNotUnique), "Wrong error on duplicate account name: %v", err)
}

func (suite *TestSuiteStandard) TestAccountBalance() {
	account := suite.createTestAccount(models.Account{
		Name:           "Balance Test",
		OpeningBalance: decimal.NewFromFloat(100),
	})

	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Type:      models.TransactionTypeExpense,
		Amount:    decimal.NewFromFloat(30),
		Date:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Type:      models.TransactionTypeIncome,
		Amount:    decimal.NewFromFloat(50),
		Date:      time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
	})

	// After the opening balance date
	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Type:      models.TransactionTypeOwnerDraw,
		Amount:    decimal.NewFromFloat(10),
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	balance, err := account.Balance(models.DB, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromFloat(120).Equal(balance), "Balance is %s, expected 120", balance)

	// All transactions
	balance, err = account.Balance(models.DB, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromFloat(110).Equal(balance), "Balance is %s, expected 110", balance)
}

func (suite *TestSuiteStandard) TestAccountBalanceBeforeOpening() {
	openingDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	account := suite.createTestAccount(models.Account{
		Name:               "Opened later",
		OpeningBalance:     decimal.NewFromFloat(500),
		OpeningBalanceDate: &openingDate,
	})

	balance, err := account.Balance(models.DB, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().Nil(err)
	suite.Assert().True(balance.IsZero(), "The opening balance must not count before its date, got %s", balance)
}

func (suite *TestSuiteStandard) TestAccountTransactions() {
	account := suite.createTestAccount(models.Account{Name: "With transactions"})
	other := suite.createTestAccount(models.Account{Name: "Without transactions"})

	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID})
	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID})

	suite.Assert().Len(account.Transactions(models.DB), 2)
	suite.Assert().Len(other.Transactions(models.DB), 0)
}
