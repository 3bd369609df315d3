package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/importer"
	"github.com/ledgerline/backend/internal/models"
	ll_uuid "github.com/ledgerline/backend/internal/uuid"
)

type ImportQuery struct {
	AccountID ll_uuid.UUID `form:"accountId" binding:"required"` // ID of the account to import the statement for
}

type ImportBatchLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/imports/d1e2f63e-8904-4f09-a64a-1f921d48de45"`                 // The import itself
	Execute      string `json:"execute" example:"https://example.com/api/v1/imports/d1e2f63e-8904-4f09-a64a-1f921d48de45/execute"`      // Endpoint to execute the import
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?importBatch=d1e2f63e-8904-4f09-a64a-1f921d48de45"` // Transactions created by this import
}

type ImportBatch struct {
	models.DefaultModel
	AccountID     uuid.UUID         `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // ID of the account the statement was uploaded for
	Filename      string            `json:"filename" example:"activity.csv"`                          // Name of the uploaded file
	RowCount      uint              `json:"rowCount" example:"20"`                                    // Number of data rows in the file
	ImportedCount uint              `json:"importedCount" example:"17"`                               // Number of transactions created
	SkippedCount  uint              `json:"skippedCount" example:"2"`                                 // Number of rows skipped as duplicates
	ErrorCount    uint              `json:"errorCount" example:"1"`                                   // Number of rows that could not be imported
	Status        string            `json:"status" example:"pending"`                                 // One of "pending", "processing", "completed", "failed"
	Errors        []models.RowError `json:"errors"`                                                   // Rows that could not be imported
	Links         ImportBatchLinks  `json:"links"`
}

func newImportBatch(c *gin.Context, model models.ImportBatch) ImportBatch {
	url := c.GetString(string(models.DBContextURL))

	// Marshalled to an empty JSON array instead of null
	rowErrors := model.Errors
	if rowErrors == nil {
		rowErrors = make([]models.RowError, 0)
	}

	return ImportBatch{
		DefaultModel:  model.DefaultModel,
		AccountID:     model.AccountID,
		Filename:      model.Filename,
		RowCount:      model.RowCount,
		ImportedCount: model.ImportedCount,
		SkippedCount:  model.SkippedCount,
		ErrorCount:    model.ErrorCount,
		Status:        model.Status,
		Errors:        rowErrors,
		Links: ImportBatchLinks{
			Self:         fmt.Sprintf("%s/v1/imports/%s", url, model.ID),
			Execute:      fmt.Sprintf("%s/v1/imports/%s/execute", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?importBatch=%s", url, model.ID),
		},
	}
}

type ImportBatchListResponse struct {
	Data       []ImportBatch `json:"data"`                                                          // List of Imports
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type ImportBatchResponse struct {
	Data  *ImportBatch `json:"data"`                                                          // Data for the Import
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ImportPreview is the result of uploading a statement file: the created
// import and all parsed rows, ready for review.
type ImportPreview struct {
	Batch   ImportBatch             `json:"batch"`   // The import created for the upload
	Records []importer.ParsedRecord `json:"records"` // The parsed rows of the file
}

type ImportPreviewResponse struct {
	Data  *ImportPreview `json:"data"`                                                   // The preview of the import
	Error *string        `json:"error" example:"the file exceeds the maximum size of 5 MiB"` // The error, if any occurred
}

// ImportExecuteEditable is the request body for executing an import.
//
// Records are sent back by the client since the preview is where category
// overrides and duplicate decisions are made. CategoryOverrides maps row
// numbers to category IDs and wins over the suggested category.
type ImportExecuteEditable struct {
	Records           []importer.ParsedRecord `json:"records"`           // The rows to import, as returned by the preview
	CategoryOverrides map[string]uuid.UUID    `json:"categoryOverrides"` // Map of row number to category ID
	SkipDuplicates    *bool                   `json:"skipDuplicates"`    // Skip rows detected as duplicates. Defaults to true.
}

type ImportExecuteResponse struct {
	Data  *importer.Result `json:"data"`                                                // The result of the import
	Error *string          `json:"error" example:"this import has already been executed"` // The error, if any occurred
}

type ImportBatchQueryFilter struct {
	AccountID ll_uuid.UUID `form:"account"`                    // By ID of the account
	Status    string       `form:"status"`                     // By status
	Offset    uint         `form:"offset" filterField:"false"` // The offset of the first Import returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`  // Maximum number of Imports to return. Defaults to 50.
}

func (f ImportBatchQueryFilter) model() (models.ImportBatch, error) {
	return models.ImportBatch{
		AccountID: f.AccountID.UUID,
		Status:    f.Status,
	}, nil
}
