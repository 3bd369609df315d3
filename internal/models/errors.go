package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrAccountNameNotUnique       = errors.New("the account name must be unique")
	ErrCategoryNameNotUnique      = errors.New("the category name must be unique")
	ErrCategoryTypeInvalid        = errors.New("the category type must be one of 'expense' or 'income'")
	ErrTransactionTypeInvalid     = errors.New("the transaction type is invalid")
	ErrAmountNotPositive          = errors.New("the transaction amount must be positive")
	ErrImportBatchStatusInvalid   = errors.New("the import status is invalid")
	ErrImportBatchStatusRegressed = errors.New("an import cannot return to an earlier status")
	ErrMatchRulePatternEmpty      = errors.New("the match rule pattern must not be empty")
	ErrRecurringFrequencyInvalid  = errors.New("the frequency must be one of 'monthly', 'quarterly' or 'annually'")
	ErrRecurringDayOfMonthInvalid = errors.New("the day of month must be between 1 and 31")
)
