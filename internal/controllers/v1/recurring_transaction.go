package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slices"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/recurring"
)

// RegisterRecurringTransactionRoutes registers the routes for
// recurringTransactions with the RouterGroup that is passed.
func RegisterRecurringTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRecurringTransactionList)
		r.GET("", GetRecurringTransactions)
		r.POST("", CreateRecurringTransactions)
	}

	// Generation run
	{
		r.OPTIONS("/generate", OptionsRecurringTransactionGenerate)
		r.POST("/generate", GenerateRecurringTransactions)
	}

	// RecurringTransaction with ID
	{
		r.OPTIONS("/:id", OptionsRecurringTransactionDetail)
		r.GET("/:id", GetRecurringTransaction)
		r.PATCH("/:id", UpdateRecurringTransaction)
		r.DELETE("/:id", DeleteRecurringTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			RecurringTransactions
// @Success		204
// @Router			/v1/recurring-transactions [options]
func OptionsRecurringTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			RecurringTransactions
// @Success		204
// @Router			/v1/recurring-transactions/generate [options]
func OptionsRecurringTransactionGenerate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			RecurringTransactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-transactions/{id} [options]
func OptionsRecurringTransactionDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.RecurringTransaction{})
}

// @Summary		Create recurringTransactions
// @Description	Creates recurringTransactions from the list of submitted recurringTransaction data. The response code is the highest response code number that a single recurringTransaction creation would have caused. If it is not equal to 201, at least one recurringTransaction has an error.
// @Tags			RecurringTransactions
// @Produce		json
// @Success		201						{object}	RecurringTransactionCreateResponse
// @Failure		400						{object}	RecurringTransactionCreateResponse
// @Failure		404						{object}	RecurringTransactionCreateResponse
// @Failure		500						{object}	RecurringTransactionCreateResponse
// @Param			recurringTransactions	body		[]RecurringTransactionEditable	true	"RecurringTransactions"
// @Router			/v1/recurring-transactions [post]
func CreateRecurringTransactions(c *gin.Context) {
	var recurringTransactions []RecurringTransactionEditable

	err := httputil.BindData(c, &recurringTransactions)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringTransactionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := RecurringTransactionCreateResponse{}

	for _, editable := range recurringTransactions {
		recurringTransaction := editable.model()

		// Create the resource
		err = models.DB.Create(&recurringTransaction).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newRecurringTransaction(c, recurringTransaction)
		r.Data = append(r.Data, RecurringTransactionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get recurringTransactions
// @Description	Returns a list of recurringTransactions
// @Tags			RecurringTransactions
// @Produce		json
// @Success		200			{object}	RecurringTransactionListResponse
// @Failure		400			{object}	RecurringTransactionListResponse
// @Failure		500			{object}	RecurringTransactionListResponse
// @Param			account		query		string	false	"Filter by account ID"
// @Param			category	query		string	false	"Filter by category ID"
// @Param			frequency	query		string	false	"Filter by frequency"
// @Param			vendor		query		string	false	"Filter by vendor"
// @Param			active		query		bool	false	"Is the template active?"
// @Param			offset		query		uint	false	"The offset of the first Recurring Transaction returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of Recurring Transactions to return. Defaults to 50."
// @Router			/v1/recurring-transactions [get]
func GetRecurringTransactions(c *gin.Context) {
	var filter RecurringTransactionQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("datetime(next_due) ASC").
		Where(&filterModel, queryFields...)

	if filter.Vendor != "" {
		q = q.Where("vendor LIKE ?", fmt.Sprintf("%%%s%%", filter.Vendor))
	} else if slices.Contains(setFields, "Vendor") {
		q = q.Where("vendor = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Recurring Transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var recurringTransactions []models.RecurringTransaction
	err = q.Find(&recurringTransactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringTransactionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]RecurringTransaction, 0)
	for _, recurringTransaction := range recurringTransactions {
		data = append(data, newRecurringTransaction(c, recurringTransaction))
	}

	c.JSON(http.StatusOK, RecurringTransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get recurringTransaction
// @Description	Returns a specific recurringTransaction
// @Tags			RecurringTransactions
// @Produce		json
// @Success		200	{object}	RecurringTransactionResponse
// @Failure		400	{object}	RecurringTransactionResponse
// @Failure		404	{object}	RecurringTransactionResponse
// @Failure		500	{object}	RecurringTransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-transactions/{id} [get]
func GetRecurringTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	var recurringTransaction models.RecurringTransaction
	err = models.DB.First(&recurringTransaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	data := newRecurringTransaction(c, recurringTransaction)
	c.JSON(http.StatusOK, RecurringTransactionResponse{Data: &data})
}

// @Summary		Update recurringTransaction
// @Description	Update a recurringTransaction. Only values to be updated need to be specified.
// @Tags			RecurringTransactions
// @Accept			json
// @Produce		json
// @Success		200						{object}	RecurringTransactionResponse
// @Failure		400						{object}	RecurringTransactionResponse
// @Failure		404						{object}	RecurringTransactionResponse
// @Failure		500						{object}	RecurringTransactionResponse
// @Param			id						path		URIID							true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			recurringTransaction	body		RecurringTransactionEditable	true	"RecurringTransaction"
// @Router			/v1/recurring-transactions/{id} [patch]
func UpdateRecurringTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	var recurringTransaction models.RecurringTransaction
	err = models.DB.First(&recurringTransaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RecurringTransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	var data RecurringTransactionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&recurringTransaction).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	r := newRecurringTransaction(c, recurringTransaction)
	c.JSON(http.StatusOK, RecurringTransactionResponse{Data: &r})
}

// @Summary		Delete recurringTransaction
// @Description	Deletes a recurringTransaction. Transactions generated from it are kept.
// @Tags			RecurringTransactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-transactions/{id} [delete]
func DeleteRecurringTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var recurringTransaction models.RecurringTransaction
	err = models.DB.First(&recurringTransaction, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&recurringTransaction).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Generate due transactions
// @Description	Creates transactions from all active recurring templates that are due. Templates that missed several periods catch up with one transaction per period.
// @Tags			RecurringTransactions
// @Accept			json
// @Produce		json
// @Success		200		{object}	RecurringGenerateResponse
// @Failure		400		{object}	RecurringGenerateResponse
// @Failure		500		{object}	RecurringGenerateResponse
// @Param			run	body		RecurringGenerateEditable	false	"Generation parameters"
// @Router			/v1/recurring-transactions/generate [post]
func GenerateRecurringTransactions(c *gin.Context) {
	var data RecurringGenerateEditable

	// An empty body runs the generation with the defaults
	err := httputil.BindData(c, &data)
	if err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		e := err.Error()
		c.JSON(status(err), RecurringGenerateResponse{
			Error: &e,
		})
		return
	}

	effective := time.Now().In(time.UTC)
	if data.Date != nil {
		effective = data.Date.In(time.UTC)
	}

	result, err := recurring.Generate(models.DB, effective, data.DryRun)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringGenerateResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, RecurringGenerateResponse{Data: &result})
}
