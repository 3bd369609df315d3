package importer_test

import (
	"github.com/ledgerline/backend/internal/importer"
	"github.com/ledgerline/backend/internal/models"
)

func (suite *TestSuiteStandard) TestBuildCategoryMap() {
	office := suite.createTestCategory(models.Category{Name: "Office Supplies", Active: true})
	_ = suite.createTestCategory(models.Category{Name: "Meals & Entertainment", Active: true})

	// Inactive and income categories are not suggestion targets
	_ = suite.createTestCategory(models.Category{Name: "Travel", Active: false})
	_ = suite.createTestCategory(models.Category{Name: "Miscellaneous", Type: models.CategoryTypeIncome, Active: true})

	m, err := importer.BuildCategoryMap(models.DB)
	suite.Require().Nil(err)

	id, ok := m.Suggest("Merchandise & Supplies")
	suite.Require().True(ok, "Label must resolve via the vocabulary")
	suite.Assert().Equal(office.ID, id)

	_, ok = m.Suggest("Travel")
	suite.Assert().False(ok, "Inactive categories must not be suggested")

	_, ok = m.Suggest("Other")
	suite.Assert().False(ok, "Income categories must not be suggested")
}

func (suite *TestSuiteStandard) TestSuggestMatching() {
	meals := suite.createTestCategory(models.Category{Name: "Meals & Entertainment", Active: true})
	office := suite.createTestCategory(models.Category{Name: "Office Supplies", Active: true})

	m, err := importer.BuildCategoryMap(models.DB)
	suite.Require().Nil(err)

	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"Restaurants", "meals", true},
		{"restaurant-bar & café", "meals", true}, // substring match
		{"Merchandise & Supplies", "office", true},
		{"Merchandise & Supplies-Groceries", "office", true},
		{"", "", false},
		{"completely unknown", "", false},
	}

	for _, tt := range tests {
		id, ok := m.Suggest(tt.label)
		suite.Assert().Equal(tt.ok, ok, "Wrong result for label %q", tt.label)

		if !tt.ok {
			continue
		}

		want := meals.ID
		if tt.want == "office" {
			want = office.ID
		}
		suite.Assert().Equal(want, id, "Wrong category for label %q", tt.label)
	}
}

func (suite *TestSuiteStandard) TestSuggestCategories() {
	office := suite.createTestCategory(models.Category{Name: "Office Supplies", Active: true})
	other := suite.createTestCategory(models.Category{Name: "Professional Services", Active: true})

	records := []importer.ParsedRecord{
		{RowNumber: 1, SourceCategory: "Merchandise & Supplies"},
		{RowNumber: 2, SourceCategory: "Unknown Label"},
		// Already suggested, e.g. by a match rule
		{RowNumber: 3, SourceCategory: "Merchandise & Supplies", SuggestedCategoryID: &other.ID},
	}

	err := importer.SuggestCategories(models.DB, records)
	suite.Require().Nil(err)

	suite.Require().NotNil(records[0].SuggestedCategoryID)
	suite.Assert().Equal(office.ID, *records[0].SuggestedCategoryID)

	suite.Assert().Nil(records[1].SuggestedCategoryID)

	suite.Require().NotNil(records[2].SuggestedCategoryID)
	suite.Assert().Equal(other.ID, *records[2].SuggestedCategoryID, "Existing suggestions must not be overwritten")
}
