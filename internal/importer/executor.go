package importer

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	rowsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgerline_import_rows_imported_total",
		Help: "Number of statement rows imported as transactions",
	})
	rowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgerline_import_rows_skipped_total",
		Help: "Number of statement rows skipped as duplicates",
	})
	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgerline_import_rows_failed_total",
		Help: "Number of statement rows that could not be imported",
	})
)

// Execute materializes the records as transactions on the batch's
// account, inside a single database transaction: either all importable
// rows are committed or, on a hard database failure, none are.
//
// Rows failing on their own (parse errors, per-row write errors) are
// collected into the result and do not abort the batch. Duplicates are
// skipped unless skipDuplicates is false. A category override, keyed by
// row number, takes precedence over the suggested category.
func Execute(db *gorm.DB, batch *models.ImportBatch, records []ParsedRecord, overrides map[uint]uuid.UUID, skipDuplicates bool) (Result, error) {
	result := Result{
		// Marshalled to an empty JSON array instead of null when no
		// errors occur
		Errors: make([]models.RowError, 0),
	}

	categories, err := activeCategories(db)
	if err != nil {
		return Result{}, err
	}

	// Resolved once per batch. Nil if no active "Refunds" category
	// exists.
	refunds := refundCategory(db)

	batch.Status = models.ImportBatchStatusProcessing
	err = db.Model(batch).Updates(models.ImportBatch{Status: models.ImportBatchStatusProcessing}).Error
	if err != nil {
		return Result{}, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		failBatch(db, batch)
		return Result{}, tx.Error
	}

	for _, record := range records {
		if !record.IsValid() {
			reason := "Invalid row data"
			if record.Error != nil {
				reason = *record.Error
			}

			result.Errors = append(result.Errors, models.RowError{
				Row:   record.RowNumber,
				Error: reason,
			})
			continue
		}

		if record.IsDuplicate && skipDuplicates {
			result.Skipped++
			continue
		}

		category := resolveCategory(record, overrides, categories)

		transactionType := models.TransactionTypeExpense
		if record.IsRefund {
			transactionType = models.TransactionTypeIncome

			// A refund must not inflate expense totals. If an expense
			// category was chosen, move the row to the Refunds
			// category, or leave it uncategorized if there is none.
			if category != nil && category.Type == models.CategoryTypeExpense {
				category = refunds
			}
		}

		transaction := models.Transaction{
			AccountID:     batch.AccountID,
			Type:          transactionType,
			Amount:        *record.Amount,
			Date:          *record.Date,
			Description:   record.Description,
			Vendor:        record.Vendor,
			Reference:     record.Reference,
			ImportBatchID: &batch.ID,
		}
		if category != nil {
			id := category.ID
			transaction.CategoryID = &id
		}

		err := tx.Create(&transaction).Error
		if err != nil {
			result.Errors = append(result.Errors, models.RowError{
				Row:   record.RowNumber,
				Error: err.Error(),
			})
			continue
		}

		result.Imported++
	}

	err = tx.Commit().Error
	if err != nil {
		failBatch(db, batch)
		return Result{}, err
	}

	batch.ImportedCount = result.Imported
	batch.SkippedCount = result.Skipped
	batch.ErrorCount = uint(len(result.Errors))
	batch.Errors = result.Errors
	batch.Status = models.ImportBatchStatusCompleted

	err = db.Save(batch).Error
	if err != nil {
		return Result{}, err
	}

	rowsImported.Add(float64(result.Imported))
	rowsSkipped.Add(float64(result.Skipped))
	rowsFailed.Add(float64(len(result.Errors)))

	log.Info().
		Str("batch", batch.ID.String()).
		Uint("imported", result.Imported).
		Uint("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("import executed")

	return result, nil
}

// resolveCategory picks the category for a record: an override for the
// row wins over the suggestion. Unknown or inactive categories resolve
// to nil, the transaction is then imported without a category.
func resolveCategory(record ParsedRecord, overrides map[uint]uuid.UUID, categories map[uuid.UUID]models.Category) *models.Category {
	id, ok := overrides[record.RowNumber]
	if !ok {
		if record.SuggestedCategoryID == nil {
			return nil
		}
		id = *record.SuggestedCategoryID
	}

	if category, ok := categories[id]; ok {
		return &category
	}

	return nil
}

// activeCategories loads all active categories for quick lookup.
func activeCategories(db *gorm.DB) (map[uuid.UUID]models.Category, error) {
	var categories []models.Category
	err := db.Where(models.Category{Active: true}).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	return byID, nil
}

func refundCategory(db *gorm.DB) *models.Category {
	var category models.Category
	err := db.Where(models.Category{Name: "Refunds", Active: true}).First(&category).Error
	if err != nil {
		if !errors.Is(err, models.ErrResourceNotFound) {
			log.Error().Err(err).Msg("could not look up the Refunds category")
		}
		return nil
	}

	return &category
}

func failBatch(db *gorm.DB, batch *models.ImportBatch) {
	batch.Status = models.ImportBatchStatusFailed
	err := db.Model(batch).Updates(models.ImportBatch{Status: models.ImportBatchStatusFailed}).Error
	if err != nil {
		log.Error().Err(err).Str("batch", batch.ID.String()).Msg("could not mark import as failed")
	}
}
