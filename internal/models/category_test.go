package models_test

import (
	"errors"

	"github.com/ledgerline/backend/internal/models"
)

func (suite *TestSuiteStandard) TestCategoryTypeInvalid() {
	err := models.DB.Create(&models.Category{Name: "Invalid", Type: "savings"}).Error
	suite.Assert().True(errors.Is(err, models.ErrCategoryTypeInvalid), "Wrong error on invalid category type: %v", err)
}

func (suite *TestSuiteStandard) TestCategoryNameNotUnique() {
	_ = suite.createTestCategory(models.Category{Name: "Office Supplies"})

	err := models.DB.Create(&models.Category{Name: "Office Supplies", Type: models.CategoryTypeExpense}).Error
	suite.Assert().True(errors.Is(err, models.ErrCategoryNameNotUnique), "Wrong error on duplicate category name: %v", err)
}

func (suite *TestSuiteStandard) TestCategoryTrimWhitespace() {
	category := suite.createTestCategory(models.Category{
		Name: " Meals & Entertainment ",
		Note: "\tClient dinners ",
		Type: models.CategoryTypeExpense,
	})

	suite.Assert().Equal("Meals & Entertainment", category.Name)
	suite.Assert().Equal("Client dinners", category.Note)
}
