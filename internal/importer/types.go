package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ParsedRecord is one row of a statement file after parsing, ready to be
// previewed, checked for duplicates and imported.
type ParsedRecord struct {
	RowNumber              uint             `json:"rowNumber" example:"1"`                                            // 1-based position of the row in the uploaded file
	Date                   *time.Time       `json:"date" example:"2026-01-15T00:00:00Z"`                              // Transaction date, unset if it could not be parsed
	Description            string           `json:"description" example:"AMAZON.COM*A12345"`                          // Description, capped at 500 characters
	Amount                 *decimal.Decimal `json:"amount" example:"49.99"`                                           // Always positive, unset if it could not be parsed
	IsRefund               bool             `json:"isRefund" example:"false"`                                         // True if the statement showed a negative amount
	Vendor                 string           `json:"vendor" example:"AMAZON.COM*A12345"`                               // Vendor, derived from the description
	Reference              string           `json:"reference" example:"320260150298180015"`                           // Reference code from the statement
	SourceCategory         string           `json:"sourceCategory" example:"Merchandise & Supplies"`                  // Category label as it appears on the statement
	SuggestedCategoryID    *uuid.UUID       `json:"suggestedCategoryId" example:"95018a69-758b-46c6-8bab-db70d9614f9d"` // Category suggested from the statement label
	IsDuplicate            bool             `json:"isDuplicate" example:"false"`                                      // True if a matching transaction already exists
	DuplicateTransactionID *uuid.UUID       `json:"duplicateTransactionId"`                                           // The transaction this row duplicates
	Error                  *string          `json:"error"`                                                            // Reason the row cannot be imported
}

// IsValid reports whether the record can be imported.
func (r ParsedRecord) IsValid() bool {
	return r.Error == nil && r.Date != nil && r.Amount != nil
}

// Fail marks the record as unparseable. Only the first error is kept,
// later ones would hide the root cause.
func (r *ParsedRecord) Fail(reason string) {
	if r.Error == nil {
		r.Error = &reason
	}
}

// Result is the summary of an executed import.
type Result struct {
	Imported uint              `json:"imported" example:"17"` // Number of transactions created
	Skipped  uint              `json:"skipped" example:"2"`   // Number of rows skipped as duplicates
	Errors   []models.RowError `json:"errors"`                // Rows that could not be imported
}
