package v1

import (
	"errors"
	"net/http"

	"github.com/ledgerline/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Import errors
var (
	errNoFilePost         = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix    = errors.New("this endpoint only supports files of the following types")
	errFileTooLarge       = errors.New("the file exceeds the maximum size of 5 MiB")
	errAccountIDParameter = errors.New("the accountId parameter must be set")
	errBatchAlreadyRun    = errors.New("this import has already been executed")
	errRowNumberInvalid   = errors.New("a category override references an invalid row number")
)

// Receipt errors
var errReceiptTextEmpty = errors.New("the text field must not be empty")
