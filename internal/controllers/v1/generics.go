package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/models"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
//
// Note: This function only works for resources with an ID, not for derived endpoints (like /imports/{id}/execute)
func resourceOptionsDetail[R models.Account | models.Category | models.Transaction | models.MatchRule | models.RecurringTransaction](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
