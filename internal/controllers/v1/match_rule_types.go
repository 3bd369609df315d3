package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	ll_uuid "github.com/ledgerline/backend/internal/uuid"
)

// MatchRuleEditable represents all user configurable parameters
type MatchRuleEditable struct {
	Priority   uint      `json:"priority" example:"1" default:"0"`                          // The priority of the match rule
	Match      string    `json:"match" example:"Bank*" default:""`                          // The matching applied to the vendor. Can be an exact match or a glob pattern. Globbing is done with "*".
	CategoryID uuid.UUID `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // The category matching rows are assigned to
}

func (editable MatchRuleEditable) model() models.MatchRule {
	return models.MatchRule{
		Priority:   editable.Priority,
		Match:      editable.Match,
		CategoryID: editable.CategoryID,
	}
}

type MatchRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/match-rules/95685c82-53c6-455d-b235-f49960b73b21"` // The match rule itself
}

type MatchRule struct {
	models.DefaultModel
	MatchRuleEditable
	Links MatchRuleLinks `json:"links"`
}

func newMatchRule(c *gin.Context, model models.MatchRule) MatchRule {
	url := c.GetString(string(models.DBContextURL))

	return MatchRule{
		DefaultModel: model.DefaultModel,
		MatchRuleEditable: MatchRuleEditable{
			Priority:   model.Priority,
			Match:      model.Match,
			CategoryID: model.CategoryID,
		},
		Links: MatchRuleLinks{
			Self: fmt.Sprintf("%s/v1/match-rules/%s", url, model.ID),
		},
	}
}

type MatchRuleListResponse struct {
	Data       []MatchRule `json:"data"`                                                          // List of Match Rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type MatchRuleCreateResponse struct {
	Data  []MatchRuleResponse `json:"data"`                                                          // List of the created Match Rules or their respective error
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (m *MatchRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MatchRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MatchRuleResponse struct {
	Data  *MatchRule `json:"data"`                                                          // Data for the Match Rule
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MatchRuleQueryFilter struct {
	Priority   uint         `form:"priority"`                   // By priority
	Match      string       `form:"match" filterField:"false"`  // By match
	CategoryID ll_uuid.UUID `form:"category"`                   // By ID of the category the rule assigns
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first Match Rule returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of Match Rules to return. Defaults to 50.
}

func (f MatchRuleQueryFilter) model() (models.MatchRule, error) {
	return models.MatchRule{
		Priority:   f.Priority,
		CategoryID: f.CategoryID.UUID,
	}, nil
}
