package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	ll_uuid "github.com/ledgerline/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	AccountID   uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // ID of the account the transaction belongs to
	Type        string          `json:"type" example:"expense" default:"expense"`                 // Type of the transaction
	CategoryID  *uuid.UUID      `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category, optional
	Amount      decimal.Decimal `json:"amount" example:"14.17" minimum:"0.00000001"`              // Amount of the transaction, always positive
	Date        time.Time       `json:"date" example:"2026-02-06T00:00:00Z"`                      // Date of the transaction
	Description string          `json:"description" example:"Water for the office" default:""`   // Description of the transaction
	Vendor      string          `json:"vendor" example:"Crystal Springs" default:""`              // Vendor the transaction was made with
	Reference   string          `json:"reference" example:"320260150298180015" default:""`        // Reference code, e.g. a check number
}

func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		AccountID:   editable.AccountID,
		Type:        editable.Type,
		CategoryID:  editable.CategoryID,
		Amount:      editable.Amount,
		Date:        editable.Date,
		Description: editable.Description,
		Vendor:      editable.Vendor,
		Reference:   editable.Reference,
	}
}

type TransactionLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`  // The account of the transaction
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	ImportBatchID     *uuid.UUID       `json:"importBatchId"`     // Set if the transaction was created by an import
	RecurringSourceID *uuid.UUID       `json:"recurringSourceId"` // Set if the transaction was generated from a recurring template
	Links             TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			AccountID:   model.AccountID,
			Type:        model.Type,
			CategoryID:  model.CategoryID,
			Amount:      model.Amount,
			Date:        model.Date,
			Description: model.Description,
			Vendor:      model.Vendor,
			Reference:   model.Reference,
		},
		ImportBatchID:     model.ImportBatchID,
		RecurringSourceID: model.RecurringSourceID,
		Links: TransactionLinks{
			Self:    fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
			Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of Transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Data  []TransactionResponse `json:"data"`                                                          // List of the created Transactions or their respective error
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the Transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionQueryFilter struct {
	AccountID       ll_uuid.UUID `form:"account"`                         // By ID of the account
	CategoryID      ll_uuid.UUID `form:"category"`                        // By ID of the category
	ImportBatch     ll_uuid.UUID `form:"importBatch"`                     // By ID of the import that created the transaction
	RecurringSource ll_uuid.UUID `form:"recurringSource"`                 // By ID of the recurring template that generated the transaction
	Type            string       `form:"type"`                            // By type
	Vendor          string       `form:"vendor" filterField:"false"`      // By vendor
	Description     string       `form:"description" filterField:"false"` // By description
	Reference       string       `form:"reference"`                       // By reference
	FromDate        time.Time    `form:"fromDate" filterField:"false"`    // Transactions at or after this date
	UntilDate       time.Time    `form:"untilDate" filterField:"false"`   // Transactions before or at this date
	Offset          uint         `form:"offset" filterField:"false"`      // The offset of the first Transaction returned. Defaults to 0.
	Limit           int          `form:"limit" filterField:"false"`       // Maximum number of Transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	transaction := models.Transaction{
		AccountID: f.AccountID.UUID,
		Type:      f.Type,
		Reference: f.Reference,
	}

	if f.CategoryID != ll_uuid.Nil {
		id := f.CategoryID.UUID
		transaction.CategoryID = &id
	}

	if f.ImportBatch != ll_uuid.Nil {
		id := f.ImportBatch.UUID
		transaction.ImportBatchID = &id
	}

	if f.RecurringSource != ll_uuid.Nil {
		id := f.RecurringSource.UUID
		transaction.RecurringSourceID = &id
	}

	return transaction, nil
}
