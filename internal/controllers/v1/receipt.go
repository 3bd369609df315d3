package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/receipt"
)

// ReceiptParseEditable is the request body for parsing receipt text.
type ReceiptParseEditable struct {
	Text string `json:"text" example:"ACME OFFICE SUPPLY\n02/06/2026\nTOTAL: $14.17"` // Raw text of the receipt
}

type ReceiptParseResponse struct {
	Data  *receipt.Data `json:"data"`                                       // The extracted receipt data
	Error *string       `json:"error" example:"the text field must not be empty"` // The error, if any occurred
}

// RegisterReceiptRoutes registers the routes for receipts with
// the RouterGroup that is passed.
func RegisterReceiptRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/parse", OptionsReceiptParse)
	r.POST("/parse", ParseReceipt)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Receipts
// @Success		204
// @Router			/v1/receipts/parse [options]
func OptionsReceiptParse(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Parse receipt text
// @Description	Extracts vendor, amount and date from raw receipt text, e.g. from a scanned receipt. Fields that cannot be found are unset.
// @Tags			Receipts
// @Accept			json
// @Produce		json
// @Success		200		{object}	ReceiptParseResponse
// @Failure		400		{object}	ReceiptParseResponse
// @Param			receipt	body		ReceiptParseEditable	true	"Receipt"
// @Router			/v1/receipts/parse [post]
func ParseReceipt(c *gin.Context) {
	var editable ReceiptParseEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptParseResponse{
			Error: &s,
		})
		return
	}

	if strings.TrimSpace(editable.Text) == "" {
		s := errReceiptTextEmpty.Error()
		c.JSON(http.StatusBadRequest, ReceiptParseResponse{
			Error: &s,
		})
		return
	}

	data := receipt.Parse(editable.Text)
	c.JSON(http.StatusOK, ReceiptParseResponse{Data: &data})
}
