package importer_test

import (
	"time"

	"github.com/ledgerline/backend/internal/importer"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestMarkDuplicates() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{Name: "Other Account"})

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	existing := suite.createTestTransaction(models.Transaction{
		AccountID:   account.ID,
		Amount:      decimal.NewFromFloat(49.99),
		Date:        date,
		Description: "AMAZON.COM*A12345  SEATTLE",
	})

	records := []importer.ParsedRecord{
		// Same date, amount and description, case-insensitive
		record(1, date, 49.99, "amazon.com*a12345  seattle"),
		// Same description, different amount
		record(2, date, 50.00, "AMAZON.COM*A12345  SEATTLE"),
		// Same everything, different day
		record(3, date.AddDate(0, 0, 1), 49.99, "AMAZON.COM*A12345  SEATTLE"),
	}

	err := importer.MarkDuplicates(models.DB, account, records)
	suite.Require().Nil(err)

	suite.Assert().True(records[0].IsDuplicate)
	suite.Require().NotNil(records[0].DuplicateTransactionID)
	suite.Assert().Equal(existing.ID, *records[0].DuplicateTransactionID)

	suite.Assert().False(records[1].IsDuplicate)
	suite.Assert().False(records[2].IsDuplicate)

	// The same rows on another account are no duplicates
	fresh := []importer.ParsedRecord{
		record(1, date, 49.99, "AMAZON.COM*A12345  SEATTLE"),
	}
	err = importer.MarkDuplicates(models.DB, other, fresh)
	suite.Require().Nil(err)
	suite.Assert().False(fresh[0].IsDuplicate, "Duplicate detection is scoped to the account")
}

func (suite *TestSuiteStandard) TestMarkDuplicatesReference() {
	account := suite.createTestAccount(models.Account{})

	existing := suite.createTestTransaction(models.Transaction{
		AccountID:   account.ID,
		Amount:      decimal.NewFromFloat(49.99),
		Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "AMAZON.COM*A12345",
		Reference:   "320260150298180015",
	})

	// Different description and date, same reference
	r := record(1, time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC), 49.99, "AMZN MKTP US")
	r.Reference = "320260150298180015"

	records := []importer.ParsedRecord{r}
	err := importer.MarkDuplicates(models.DB, account, records)
	suite.Require().Nil(err)

	suite.Assert().True(records[0].IsDuplicate, "Records with a known reference are duplicates")
	suite.Require().NotNil(records[0].DuplicateTransactionID)
	suite.Assert().Equal(existing.ID, *records[0].DuplicateTransactionID)
}

func (suite *TestSuiteStandard) TestMarkDuplicatesSkipsInvalid() {
	account := suite.createTestAccount(models.Account{})

	broken := importer.ParsedRecord{RowNumber: 1}
	broken.Fail("Invalid date format: 13/45/2026")

	records := []importer.ParsedRecord{broken}
	err := importer.MarkDuplicates(models.DB, account, records)
	suite.Require().Nil(err)
	suite.Assert().False(records[0].IsDuplicate)
}
