package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/ledgerline/backend/internal/controllers/v1"
	"github.com/ledgerline/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestReceiptsParse() {
	body := map[string]string{
		"text": "ACME OFFICE SUPPLY\n123 Main Street\n01/15/2026\n\nTotal: $49.99",
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/receipts/parse", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ReceiptParseResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "Acme Office Supply", response.Data.Vendor)

	require.NotNil(suite.T(), response.Data.Amount)
	assert.True(suite.T(), decimal.NewFromFloat(49.99).Equal(*response.Data.Amount))

	require.NotNil(suite.T(), response.Data.Date)
	assert.Equal(suite.T(), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *response.Data.Date)
}

func (suite *TestSuiteStandard) TestReceiptsParseFails() {
	tests := []struct {
		name          string
		body          any
		expectedError string
	}{
		{"No body", "", "the request body must not be empty"},
		{"Empty text", map[string]string{"text": "   "}, "the text field must not be empty"},
		{"Broken body", `{"text": 2}`, "json: cannot unmarshal number into Go struct field ReceiptParseEditable.text of type string"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/receipts/parse", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.ReceiptParseResponse
			test.DecodeResponse(t, &r, &response)
			require.NotNil(t, response.Error)
			assert.Equal(t, tt.expectedError, *response.Error)
		})
	}
}

// TestReceiptsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestReceiptsOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/receipts/parse", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "POST", r.Header().Get("allow"))
}
