package importer

import (
	"errors"

	"github.com/ledgerline/backend/internal/models"
	"gorm.io/gorm"
)

// MarkDuplicates flags all records that match a transaction already on
// the account. A record is a duplicate if a transaction with the same
// date, amount and description exists, or, when the record carries a
// reference code, if a transaction with that reference exists. The
// reference check catches re-imports where the description was
// normalized differently.
//
// Records with parse errors are left alone, they can never be imported
// anyway.
func MarkDuplicates(db *gorm.DB, account models.Account, records []ParsedRecord) error {
	for i := range records {
		record := &records[i]
		if !record.IsValid() {
			continue
		}

		var existing models.Transaction
		err := db.
			Where("account_id = ?", account.ID).
			Where("date(transactions.date) = date(?)", *record.Date).
			Where("amount = ?", *record.Amount).
			Where("LOWER(description) = LOWER(?)", record.Description).
			First(&existing).Error

		if err == nil {
			id := existing.ID
			record.IsDuplicate = true
			record.DuplicateTransactionID = &id
			continue
		}
		if !errors.Is(err, models.ErrResourceNotFound) {
			return err
		}

		if record.Reference == "" {
			continue
		}

		err = db.
			Where("account_id = ?", account.ID).
			Where("reference = ?", record.Reference).
			First(&existing).Error

		if err == nil {
			id := existing.ID
			record.IsDuplicate = true
			record.DuplicateTransactionID = &id
			continue
		}
		if !errors.Is(err, models.ErrResourceNotFound) {
			return err
		}
	}

	return nil
}
