package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/ledgerline/backend/internal/controllers/v1"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMatchRulesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestMatchRulesOptions() {
	tests := []struct {
		name   string
		id     string // path at the Match Rules endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Match Rule with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Match Rule exists", createTestMatchRule(suite.T(), v1.MatchRuleEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/match-rules", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestMatchRulesCreateFails() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name     string
		body     any
		status   int                                              // expected HTTP status
		testFunc func(t *testing.T, r v1.MatchRuleCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "match": 2 }]`, http.StatusBadRequest,
			func(t *testing.T, r v1.MatchRuleCreateResponse) {
				assert.Equal(t, "json: cannot unmarshal number into Go struct field MatchRuleEditable.match of type string", *r.Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, r v1.MatchRuleCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *r.Error)
			},
		},
		{
			"Empty pattern",
			[]v1.MatchRuleEditable{
				{
					Match:      "   ",
					CategoryID: category.Data.ID,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, r v1.MatchRuleCreateResponse) {
				assert.Equal(t, models.ErrMatchRulePatternEmpty.Error(), *r.Data[0].Error)
			},
		},
		{
			"Non-existing category",
			[]v1.MatchRuleEditable{
				{
					Match:      "Amazon*",
					CategoryID: uuid.New(),
				},
			},
			http.StatusNotFound,
			func(t *testing.T, r v1.MatchRuleCreateResponse) {
				assert.Equal(t, "there is no category matching your query", *r.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/match-rules", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.MatchRuleCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestMatchRulesGetFilter() {
	c1 := createTestCategory(suite.T(), v1.CategoryEditable{})
	c2 := createTestCategory(suite.T(), v1.CategoryEditable{})

	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   1,
		Match:      "AMAZON*",
		CategoryID: c1.Data.ID,
	})

	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   2,
		Match:      "CHIPOTLE*",
		CategoryID: c2.Data.ID,
	})

	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   2,
		Match:      "DELTA*",
		CategoryID: c2.Data.ID,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Category 1", fmt.Sprintf("category=%s", c1.Data.ID), 1},
		{"Category 2", fmt.Sprintf("category=%s", c2.Data.ID), 2},
		{"Priority", "priority=2", 2},
		{"Fuzzy match", "match=A", 2},
		{"Offset 1", "offset=1", 2},
		{"Limit 1", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.MatchRuleListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/match-rules?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// TestMatchRulesGetSorted verifies that Match Rules are sorted by priority
// first and pattern second.
func (suite *TestSuiteStandard) TestMatchRulesGetSorted() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	m1 := createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   2,
		Match:      "AMAZON*",
		CategoryID: category.Data.ID,
	})

	m2 := createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   1,
		Match:      "ZIPCAR*",
		CategoryID: category.Data.ID,
	})

	m3 := createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   2,
		Match:      "DELTA*",
		CategoryID: category.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/match-rules", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var matchRules v1.MatchRuleListResponse
	test.DecodeResponse(suite.T(), &r, &matchRules)

	require.Len(suite.T(), matchRules.Data, 3, "Match Rule list has wrong length")

	assert.Equal(suite.T(), m2.Data.ID, matchRules.Data[0].ID)
	assert.Equal(suite.T(), m1.Data.ID, matchRules.Data[1].ID)
	assert.Equal(suite.T(), m3.Data.ID, matchRules.Data[2].ID)
}

// Verify that updating match rules works as desired
func (suite *TestSuiteStandard) TestMatchRulesUpdate() {
	matchRule := createTestMatchRule(suite.T(), v1.MatchRuleEditable{Match: "Amazon*"})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name      string                                     // name of the test
		matchRule map[string]any                             // the updates to perform. This is not a struct because that would set all fields on the request
		testFunc  func(t *testing.T, r v1.MatchRuleResponse) // tests to perform against the updated match rule resource
	}{
		{
			"Match",
			map[string]any{
				"match": "AMZN*",
			},
			func(t *testing.T, r v1.MatchRuleResponse) {
				assert.Equal(t, "AMZN*", r.Data.Match)
			},
		},
		{
			"Priority",
			map[string]any{
				"priority": 4,
			},
			func(t *testing.T, r v1.MatchRuleResponse) {
				assert.Equal(t, uint(4), r.Data.Priority)
			},
		},
		{
			"Category",
			map[string]any{
				"categoryId": category.Data.ID,
			},
			func(t *testing.T, r v1.MatchRuleResponse) {
				assert.Equal(t, category.Data.ID, r.Data.CategoryID)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, matchRule.Data.Links.Self, tt.matchRule)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.MatchRuleResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestMatchRulesDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Match Rule", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			if tt.id == "" {
				m := createTestMatchRule(t, v1.MatchRuleEditable{})
				tt.id = m.Data.ID.String()
			}

			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/match-rules/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}
