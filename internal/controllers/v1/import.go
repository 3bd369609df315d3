package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/importer"
	"github.com/ledgerline/backend/internal/importer/parser/amex"
	"github.com/ledgerline/backend/internal/models"
	ll_uuid "github.com/ledgerline/backend/internal/uuid"
	"golang.org/x/exp/slices"
)

// maxImportFileSize is the upper bound for uploaded statement files.
const maxImportFileSize = 5 << 20

// RegisterImportRoutes registers the routes for imports with
// the RouterGroup that is passed.
func RegisterImportRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsImportList)
		r.GET("", GetImports)
		r.POST("", CreateImport)
	}

	// Import with ID
	{
		r.OPTIONS("/:id", OptionsImportDetail)
		r.GET("/:id", GetImport)

		r.OPTIONS("/:id/execute", OptionsImportExecute)
		r.POST("/:id/execute", ExecuteImport)
	}
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, *multipart.FileHeader, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, nil, errNoFilePost
	}

	if err != nil {
		return nil, nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	if formFile.Size > maxImportFileSize {
		return nil, nil, errFileTooLarge
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, nil, err
	}

	return f, formFile, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Imports
// @Success		204
// @Router			/v1/imports [options]
func OptionsImportList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Imports
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/imports/{id} [options]
func OptionsImportDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.ImportBatch{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Imports
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/imports/{id}/execute [options]
func OptionsImportExecute(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.ImportBatch{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Upload statement
// @Description	Parses a statement file and returns a preview of the rows to be imported. The import is created in the "pending" state, nothing is written until it is executed.
// @Tags			Imports
// @Accept			multipart/form-data
// @Produce		json
// @Success		201			{object}	ImportPreviewResponse
// @Failure		400			{object}	ImportPreviewResponse
// @Failure		404			{object}	ImportPreviewResponse
// @Failure		500			{object}	ImportPreviewResponse
// @Param			file		formData	file		true	"File to import"
// @Param			accountId	query		ImportQuery	false	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/imports [post]
func CreateImport(c *gin.Context) {
	var query ImportQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := fmt.Errorf("accountId: %w", err).Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	if query.AccountID == ll_uuid.Nil {
		s := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	f, formFile, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	// Verify that the account exists
	var account models.Account
	err = models.DB.First(&account, query.AccountID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	records, err := amex.Parse(f)
	if err != nil {
		// amex.Parse returns a usable error already, no parsing necessary
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	// Match rules win over the statement's own category labels, so they
	// run first
	err = importer.ApplyMatchRules(models.DB, records)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	err = importer.SuggestCategories(models.DB, records)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	err = importer.MarkDuplicates(models.DB, account, records)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	batch := models.ImportBatch{
		AccountID: account.ID,
		Filename:  formFile.Filename,
		RowCount:  uint(len(records)),
		Status:    models.ImportBatchStatusPending,
		Errors:    make([]models.RowError, 0),
	}

	err = models.DB.Create(&batch).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewResponse{
			Error: &s,
		})
		return
	}

	data := newImportBatch(c, batch)
	c.JSON(http.StatusCreated, ImportPreviewResponse{
		Data: &ImportPreview{
			Batch:   data,
			Records: records,
		},
	})
}

// @Summary		Execute import
// @Description	Creates transactions from the previewed rows. Can only be called once per import.
// @Tags			Imports
// @Accept			json
// @Produce		json
// @Success		200		{object}	ImportExecuteResponse
// @Failure		400		{object}	ImportExecuteResponse
// @Failure		404		{object}	ImportExecuteResponse
// @Failure		500		{object}	ImportExecuteResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			import	body		ImportExecuteEditable	true	"Import"
// @Router			/v1/imports/{id}/execute [post]
func ExecuteImport(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportExecuteResponse{
			Error: &s,
		})
		return
	}

	var batch models.ImportBatch
	err = models.DB.First(&batch, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportExecuteResponse{
			Error: &s,
		})
		return
	}

	// Executing twice would duplicate every transaction of the batch
	if batch.Status != models.ImportBatchStatusPending {
		s := errBatchAlreadyRun.Error()
		c.JSON(http.StatusBadRequest, ImportExecuteResponse{
			Error: &s,
		})
		return
	}

	var editable ImportExecuteEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportExecuteResponse{
			Error: &s,
		})
		return
	}

	// JSON object keys are always strings, the row numbers need to be
	// parsed
	overrides := make(map[uint]uuid.UUID, len(editable.CategoryOverrides))
	for row, id := range editable.CategoryOverrides {
		number, err := strconv.ParseUint(row, 10, 32)
		if err != nil || number == 0 {
			s := fmt.Errorf("%w: %s", errRowNumberInvalid, row).Error()
			c.JSON(http.StatusBadRequest, ImportExecuteResponse{
				Error: &s,
			})
			return
		}
		overrides[uint(number)] = id
	}

	skipDuplicates := true
	if editable.SkipDuplicates != nil {
		skipDuplicates = *editable.SkipDuplicates
	}

	result, err := importer.Execute(models.DB, &batch, editable.Records, overrides, skipDuplicates)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportExecuteResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ImportExecuteResponse{Data: &result})
}

// @Summary		List imports
// @Description	Returns a list of imports
// @Tags			Imports
// @Produce		json
// @Success		200	{object}	ImportBatchListResponse
// @Failure		400	{object}	ImportBatchListResponse
// @Failure		500	{object}	ImportBatchListResponse
// @Router			/v1/imports [get]
// @Param			account	query	string	false	"Filter by account ID"
// @Param			status	query	string	false	"Filter by status"
// @Param			offset	query	uint	false	"The offset of the first Import returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Imports to return. Defaults to 50."
func GetImports(c *gin.Context) {
	var filter ImportBatchQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportBatchListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("datetime(created_at) DESC").
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Imports and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var batches []models.ImportBatch
	err = q.Find(&batches).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportBatchListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ImportBatchListResponse{
			Error: &e,
		})
		return
	}

	data := make([]ImportBatch, 0)
	for _, batch := range batches {
		data = append(data, newImportBatch(c, batch))
	}

	c.JSON(http.StatusOK, ImportBatchListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get import
// @Description	Returns a specific import
// @Tags			Imports
// @Produce		json
// @Success		200	{object}	ImportBatchResponse
// @Failure		400	{object}	ImportBatchResponse
// @Failure		404	{object}	ImportBatchResponse
// @Failure		500	{object}	ImportBatchResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/imports/{id} [get]
func GetImport(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportBatchResponse{
			Error: &s,
		})
		return
	}

	var batch models.ImportBatch
	err = models.DB.First(&batch, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportBatchResponse{
			Error: &s,
		})
		return
	}

	data := newImportBatch(c, batch)
	c.JSON(http.StatusOK, ImportBatchResponse{Data: &data})
}
