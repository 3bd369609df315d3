package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category types. Expense categories group money leaving the business,
// income categories group money coming in.
const (
	CategoryTypeExpense = "expense"
	CategoryTypeIncome  = "income"
)

// Category represents a category that transactions are classified into.
type Category struct {
	DefaultModel
	Name         string `gorm:"uniqueIndex"`
	Type         string
	Note         string
	Active       bool
	DisplayOrder uint
}

// BeforeSave trims whitespace and verifies the category type.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	if c.Type != CategoryTypeExpense && c.Type != CategoryTypeIncome {
		return ErrCategoryTypeInvalid
	}

	return nil
}
