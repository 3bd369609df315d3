package importer_test

import (
	"time"

	"github.com/ledgerline/backend/internal/importer"
	"github.com/ledgerline/backend/internal/models"
)

func (suite *TestSuiteStandard) TestApplyMatchRules() {
	software := suite.createTestCategory(models.Category{Name: "Software & Subscriptions", Active: true})
	office := suite.createTestCategory(models.Category{Name: "Office Supplies", Active: true})

	// Lower priority value wins
	_ = suite.createTestMatchRule(models.MatchRule{Priority: 1, Match: "AMAZON*", CategoryID: software.ID})
	_ = suite.createTestMatchRule(models.MatchRule{Priority: 2, Match: "AMAZON.COM*", CategoryID: office.ID})

	records := []importer.ParsedRecord{
		record(1, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 49.99, "AMAZON.COM*A12345"),
		record(2, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), 15.75, "CHIPOTLE 1234"),
	}

	err := importer.ApplyMatchRules(models.DB, records)
	suite.Require().Nil(err)

	suite.Require().NotNil(records[0].SuggestedCategoryID)
	suite.Assert().Equal(software.ID, *records[0].SuggestedCategoryID, "The rule with the lowest priority must win")

	suite.Assert().Nil(records[1].SuggestedCategoryID, "Records without a matching rule are left alone")
}

func (suite *TestSuiteStandard) createTestMatchRule(matchRule models.MatchRule) models.MatchRule {
	err := models.DB.Create(&matchRule).Error
	if err != nil {
		suite.Assert().FailNow("MatchRule could not be saved", "Error: %s, MatchRule: %#v", err, matchRule)
	}

	return matchRule
}
