package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "github.com/ledgerline/backend/internal/controllers/v1"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadTestStatement uploads a statement file for the account and returns
// the decoded preview.
func (suite *TestSuiteStandard) uploadTestStatement(t *testing.T, accountID uuid.UUID, file string) v1.ImportPreviewResponse {
	body, headers := suite.loadTestFile(fmt.Sprintf("importer/amex/%s", file))
	recorder := test.Request(t, http.MethodPost, fmt.Sprintf("http://example.com/v1/imports?accountId=%s", accountID), body, headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.ImportPreviewResponse
	test.DecodeResponse(t, &recorder, &response)

	return response
}

func (suite *TestSuiteStandard) TestImportsCreatePreview() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	office := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Office Supplies", Active: true})
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Meals & Entertainment", Active: true})

	// The rule wins over the category label on the statement
	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   1,
		Match:      "CHIPOTLE*",
		CategoryID: office.Data.ID,
	})

	// Matches the first statement row, which makes it a duplicate
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:   account.Data.ID,
		Amount:      decimal.NewFromFloat(49.99),
		Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "AMAZON.COM*A12345  SEATTLE",
	})

	preview := suite.uploadTestStatement(suite.T(), account.Data.ID, "statement.csv")
	require.NotNil(suite.T(), preview.Data)

	batch := preview.Data.Batch
	assert.Equal(suite.T(), account.Data.ID, batch.AccountID)
	assert.Equal(suite.T(), models.ImportBatchStatusPending, batch.Status)
	assert.Equal(suite.T(), uint(4), batch.RowCount)
	assert.Equal(suite.T(), uint(0), batch.ImportedCount)
	assert.NotEmpty(suite.T(), batch.Links.Execute)

	records := preview.Data.Records
	require.Len(suite.T(), records, 4)

	// Row 1: suggested via the statement label, duplicate of the
	// existing transaction
	require.NotNil(suite.T(), records[0].SuggestedCategoryID)
	assert.Equal(suite.T(), office.Data.ID, *records[0].SuggestedCategoryID)
	assert.True(suite.T(), records[0].IsDuplicate)
	assert.NotNil(suite.T(), records[0].DuplicateTransactionID)

	// Row 2: a refund without a category label
	assert.True(suite.T(), records[1].IsRefund)
	assert.Nil(suite.T(), records[1].SuggestedCategoryID)
	assert.False(suite.T(), records[1].IsDuplicate)

	// Row 3: the match rule wins over the "Restaurants" label
	require.NotNil(suite.T(), records[2].SuggestedCategoryID)
	assert.Equal(suite.T(), office.Data.ID, *records[2].SuggestedCategoryID)

	// Row 4: no label, no rule
	assert.Nil(suite.T(), records[3].SuggestedCategoryID)
	assert.Equal(suite.T(), "CRYSTAL SPRINGS WATER", records[3].Vendor)
}

func (suite *TestSuiteStandard) TestImportsCreatePreviewErrorRows() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	preview := suite.uploadTestStatement(suite.T(), account.Data.ID, "errors.csv")
	require.NotNil(suite.T(), preview.Data)

	require.Len(suite.T(), preview.Data.Records, 3)
	for _, record := range preview.Data.Records {
		assert.NotNil(suite.T(), record.Error, "Row %d must have an error", record.RowNumber)
	}
}

func (suite *TestSuiteStandard) TestImportsCreateFails() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	tests := []struct {
		name          string
		query         string
		file          string
		status        int
		expectedError string
	}{
		{"No file", fmt.Sprintf("accountId=%s", account.Data.ID), "", http.StatusBadRequest, "you must send a file to this endpoint"},
		{"Wrong file suffix", fmt.Sprintf("accountId=%s", account.Data.ID), "importer/wrong-suffix.json", http.StatusBadRequest, "this endpoint only supports files of the following types"},
		{"Empty file", fmt.Sprintf("accountId=%s", account.Data.ID), "importer/amex/empty.csv", http.StatusBadRequest, "the file does not contain any data rows"},
		{"Header only", fmt.Sprintf("accountId=%s", account.Data.ID), "importer/amex/header-only.csv", http.StatusBadRequest, "the file does not contain any data rows"},
		{"Invalid encoding", fmt.Sprintf("accountId=%s", account.Data.ID), "importer/amex/invalid-encoding.csv", http.StatusBadRequest, "the file is not encoded as UTF-8"},
		{"Missing accountId", "", "importer/amex/statement.csv", http.StatusBadRequest, "accountId"},
		{"Invalid accountId", "accountId=not-a-uuid", "importer/amex/statement.csv", http.StatusBadRequest, "accountId"},
		{"Non-existing account", fmt.Sprintf("accountId=%s", uuid.New()), "importer/amex/statement.csv", http.StatusNotFound, "there is no account matching your query"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v1/imports?%s", tt.query)

			var recorder httptest.ResponseRecorder
			if tt.file != "" {
				body, headers := suite.loadTestFile(tt.file)
				recorder = test.Request(t, http.MethodPost, path, body, headers)
			} else {
				recorder = test.Request(t, http.MethodPost, path, "")
			}

			test.AssertHTTPStatus(t, &recorder, tt.status)

			var response v1.ImportPreviewResponse
			test.DecodeResponse(t, &recorder, &response)
			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.expectedError)
		})
	}
}

func (suite *TestSuiteStandard) TestImportsExecute() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	office := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Office Supplies", Active: true})

	preview := suite.uploadTestStatement(suite.T(), account.Data.ID, "statement.csv")
	require.NotNil(suite.T(), preview.Data)

	body := v1.ImportExecuteEditable{
		Records: preview.Data.Records,
		CategoryOverrides: map[string]uuid.UUID{
			"4": office.Data.ID,
		},
	}

	r := test.Request(suite.T(), http.MethodPost, preview.Data.Batch.Links.Execute, body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ImportExecuteResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), uint(4), response.Data.Imported)
	assert.Equal(suite.T(), uint(0), response.Data.Skipped)
	assert.Len(suite.T(), response.Data.Errors, 0)

	// The import is now completed
	var batch v1.ImportBatchResponse
	rBatch := test.Request(suite.T(), http.MethodGet, preview.Data.Batch.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &rBatch, http.StatusOK)
	test.DecodeResponse(suite.T(), &rBatch, &batch)

	assert.Equal(suite.T(), models.ImportBatchStatusCompleted, batch.Data.Status)
	assert.Equal(suite.T(), uint(4), batch.Data.ImportedCount)

	// All transactions reference the import
	var transactions v1.TransactionListResponse
	rTransactions := test.Request(suite.T(), http.MethodGet, preview.Data.Batch.Links.Transactions, "")
	test.AssertHTTPStatus(suite.T(), &rTransactions, http.StatusOK)
	test.DecodeResponse(suite.T(), &rTransactions, &transactions)

	require.Len(suite.T(), transactions.Data, 4)
	for _, transaction := range transactions.Data {
		require.NotNil(suite.T(), transaction.ImportBatchID)
		assert.Equal(suite.T(), preview.Data.Batch.ID, *transaction.ImportBatchID)
	}

	// The refund row became income, the override for row 4 must be
	// applied
	var incomeCount int
	for _, transaction := range transactions.Data {
		if transaction.Type == models.TransactionTypeIncome {
			incomeCount++
		}

		if transaction.Amount.Equal(decimal.NewFromFloat(1240.50)) {
			require.NotNil(suite.T(), transaction.CategoryID)
			assert.Equal(suite.T(), office.Data.ID, *transaction.CategoryID, "The category override for row 4 must be applied")
		}
	}
	assert.Equal(suite.T(), 1, incomeCount)

	// Executing a second time must fail
	rAgain := test.Request(suite.T(), http.MethodPost, preview.Data.Batch.Links.Execute, body)
	test.AssertHTTPStatus(suite.T(), &rAgain, http.StatusBadRequest)

	var second v1.ImportExecuteResponse
	test.DecodeResponse(suite.T(), &rAgain, &second)
	require.NotNil(suite.T(), second.Error)
	assert.Equal(suite.T(), "this import has already been executed", *second.Error)
}

func (suite *TestSuiteStandard) TestImportsExecuteFails() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	preview := suite.uploadTestStatement(suite.T(), account.Data.ID, "statement.csv")

	tests := []struct {
		name          string
		path          string
		body          any
		status        int
		expectedError string
	}{
		{"Invalid ID", "http://example.com/v1/imports/notaUUID/execute", `{}`, http.StatusBadRequest, ""},
		{"Non-existing import", fmt.Sprintf("http://example.com/v1/imports/%s/execute", uuid.New()), `{}`, http.StatusNotFound, "matching your query"},
		{"No body", preview.Data.Batch.Links.Execute, "", http.StatusBadRequest, "the request body must not be empty"},
		{"Invalid row number", preview.Data.Batch.Links.Execute, `{"records": [], "categoryOverrides": {"zero": "3b1ea324-d438-4419-882a-2fc91d71772f"}}`, http.StatusBadRequest, "a category override references an invalid row number"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, tt.path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.expectedError != "" {
				var response v1.ImportExecuteResponse
				test.DecodeResponse(t, &r, &response)
				require.NotNil(t, response.Error)
				assert.Contains(t, *response.Error, tt.expectedError)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestImportsGet() {
	a1 := createTestAccount(suite.T(), v1.AccountEditable{})
	a2 := createTestAccount(suite.T(), v1.AccountEditable{})

	first := suite.uploadTestStatement(suite.T(), a1.Data.ID, "statement.csv")
	_ = suite.uploadTestStatement(suite.T(), a2.Data.ID, "statement.csv")

	// Execute the first import so the status filter has something to
	// distinguish
	r := test.Request(suite.T(), http.MethodPost, first.Data.Batch.Links.Execute, v1.ImportExecuteEditable{Records: first.Data.Records})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 2},
		{"Account 1", fmt.Sprintf("account=%s", a1.Data.ID), 1},
		{"Status pending", "status=pending", 1},
		{"Status completed", "status=completed", 1},
		{"Status failed", "status=failed", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.ImportBatchListResponse
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/imports?%s", tt.query), "")
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)
			test.DecodeResponse(t, &recorder, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", recorder.Result().Header.Get("x-request-id"))
		})
	}

	// Single import
	var single v1.ImportBatchResponse
	recorder := test.Request(suite.T(), http.MethodGet, first.Data.Batch.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &single)

	assert.Equal(suite.T(), first.Data.Batch.ID, single.Data.ID)
	assert.Equal(suite.T(), "importer/amex/statement.csv", single.Data.Filename)
}

// TestImportsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestImportsOptions() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	preview := suite.uploadTestStatement(suite.T(), account.Data.ID, "statement.csv")

	tests := []struct {
		name   string
		path   string
		status int
		allow  string
	}{
		{"List", "http://example.com/v1/imports", http.StatusNoContent, "GET, POST"},
		{"Detail", preview.Data.Batch.Links.Self, http.StatusNoContent, "GET"},
		{"Execute", preview.Data.Batch.Links.Execute, http.StatusNoContent, "POST"},
		{"No Import with this ID", fmt.Sprintf("http://example.com/v1/imports/%s", uuid.New()), http.StatusNotFound, ""},
		{"Not a valid UUID", "http://example.com/v1/imports/NotParseableAsUUID", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.allow != "" {
				assert.Equal(t, tt.allow, r.Header().Get("allow"))
			}
		})
	}
}
