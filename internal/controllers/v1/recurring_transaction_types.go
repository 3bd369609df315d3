package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/recurring"
	ll_uuid "github.com/ledgerline/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// RecurringTransactionEditable represents all user configurable parameters
type RecurringTransactionEditable struct {
	AccountID   uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`  // ID of the account transactions are generated on
	CategoryID  uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category for generated transactions
	Amount      decimal.Decimal `json:"amount" example:"9.99" minimum:"0.00000001"`                // Amount of each generated transaction, always positive
	Description string          `json:"description" example:"Monthly subscription" default:""`    // Description for generated transactions
	Vendor      string          `json:"vendor" example:"Netflix" default:""`                       // Vendor for generated transactions
	Frequency   string          `json:"frequency" example:"monthly" default:""`                    // One of 'monthly', 'quarterly' or 'annually'
	DayOfMonth  int             `json:"dayOfMonth" example:"15" default:"0"`                       // Day of month transactions are due on, 1-31
	StartDate   time.Time       `json:"startDate" example:"2026-01-15T00:00:00Z"`                  // First date the template is due
	EndDate     *time.Time      `json:"endDate" example:"2026-12-31T00:00:00Z"`                    // Optional last date, unset for ongoing templates
	Active      bool            `json:"active" example:"true" default:"false"`                     // Is the template generating transactions?
	NextDue     time.Time       `json:"nextDue" example:"2026-02-15T00:00:00Z"`                    // Next date a transaction is due. Defaults to the start date.
}

func (editable RecurringTransactionEditable) model() models.RecurringTransaction {
	return models.RecurringTransaction{
		AccountID:   editable.AccountID,
		CategoryID:  editable.CategoryID,
		Amount:      editable.Amount,
		Description: editable.Description,
		Vendor:      editable.Vendor,
		Frequency:   editable.Frequency,
		DayOfMonth:  editable.DayOfMonth,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
		Active:      editable.Active,
		NextDue:     editable.NextDue,
	}
}

type RecurringTransactionLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/recurring-transactions/7e7ed89c-90fb-4a0e-a2ad-60b4f34fb2ed"`              // The template itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?recurringSource=7e7ed89c-90fb-4a0e-a2ad-60b4f34fb2ed"` // Transactions generated from this template
}

type RecurringTransaction struct {
	models.DefaultModel
	RecurringTransactionEditable

	// These fields are maintained by the generation run
	LastGenerated *time.Time `json:"lastGenerated" example:"2026-01-15T00:00:00Z"` // Date of the last generated transaction

	Links RecurringTransactionLinks `json:"links"`
}

func newRecurringTransaction(c *gin.Context, model models.RecurringTransaction) RecurringTransaction {
	url := c.GetString(string(models.DBContextURL))

	return RecurringTransaction{
		DefaultModel: model.DefaultModel,
		RecurringTransactionEditable: RecurringTransactionEditable{
			AccountID:   model.AccountID,
			CategoryID:  model.CategoryID,
			Amount:      model.Amount,
			Description: model.Description,
			Vendor:      model.Vendor,
			Frequency:   model.Frequency,
			DayOfMonth:  model.DayOfMonth,
			StartDate:   model.StartDate,
			EndDate:     model.EndDate,
			Active:      model.Active,
			NextDue:     model.NextDue,
		},
		LastGenerated: model.LastGenerated,
		Links: RecurringTransactionLinks{
			Self:         fmt.Sprintf("%s/v1/recurring-transactions/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?recurringSource=%s", url, model.ID),
		},
	}
}

type RecurringTransactionListResponse struct {
	Data       []RecurringTransaction `json:"data"`                                                          // List of Recurring Transactions
	Error      *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination            `json:"pagination"`                                                    // Pagination information
}

type RecurringTransactionCreateResponse struct {
	Data  []RecurringTransactionResponse `json:"data"`                                                          // List of the created Recurring Transactions or their respective error
	Error *string                        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *RecurringTransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RecurringTransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RecurringTransactionResponse struct {
	Data  *RecurringTransaction `json:"data"`                                                          // Data for the Recurring Transaction
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RecurringGenerateEditable are the parameters of a generation run.
type RecurringGenerateEditable struct {
	Date   *time.Time `json:"date" example:"2026-03-01T00:00:00Z"`    // Generate as if this were the current date. Defaults to today.
	DryRun bool       `json:"dryRun" example:"false" default:"false"` // Only report what a run would create
}

type RecurringGenerateResponse struct {
	Data  *recurring.Result `json:"data"`                                                          // Summary of the generation run
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecurringTransactionQueryFilter struct {
	AccountID  ll_uuid.UUID `form:"account"`                    // By ID of the account
	CategoryID ll_uuid.UUID `form:"category"`                   // By ID of the category
	Frequency  string       `form:"frequency"`                  // By frequency
	Vendor     string       `form:"vendor" filterField:"false"` // By vendor
	Active     bool         `form:"active"`                     // Is the template active?
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first Recurring Transaction returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of Recurring Transactions to return. Defaults to 50.
}

func (f RecurringTransactionQueryFilter) model() (models.RecurringTransaction, error) {
	return models.RecurringTransaction{
		AccountID:  f.AccountID.UUID,
		CategoryID: f.CategoryID.UUID,
		Frequency:  f.Frequency,
		Active:     f.Active,
	}, nil
}
