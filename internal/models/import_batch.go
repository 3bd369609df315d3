package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Import statuses. An import starts out pending and only ever moves
// forward: pending → processing → completed or failed.
const (
	ImportBatchStatusPending    = "pending"
	ImportBatchStatusProcessing = "processing"
	ImportBatchStatusCompleted  = "completed"
	ImportBatchStatusFailed     = "failed"
)

// statusRank orders the import statuses for the forward-only check.
var statusRank = map[string]int{
	ImportBatchStatusPending:    0,
	ImportBatchStatusProcessing: 1,
	ImportBatchStatusCompleted:  2,
	ImportBatchStatusFailed:     2,
}

// RowError describes why a single row of an import could not be
// turned into a transaction.
type RowError struct {
	Row   uint   `json:"row" example:"3"`                              // 1-based row number in the uploaded file
	Error string `json:"error" example:"Invalid date format: 13/1/1."` // Reason the row was not imported
}

// ImportBatch tracks one uploaded statement file and the outcome of
// importing it.
type ImportBatch struct {
	DefaultModel
	AccountID     uuid.UUID
	Account       Account `json:"-"`
	Filename      string
	RowCount      uint
	ImportedCount uint
	SkippedCount  uint
	ErrorCount    uint
	Status        string
	Errors        []RowError `gorm:"serializer:json"`
}

func (b *ImportBatch) BeforeSave(_ *gorm.DB) error {
	if _, ok := statusRank[b.Status]; !ok {
		return ErrImportBatchStatusInvalid
	}

	return nil
}

func (b *ImportBatch) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ImportBatch)
	return tx.First(&Account{}, toSave.AccountID).Error
}

// BeforeUpdate rejects status transitions that move backwards in the
// import lifecycle.
func (b *ImportBatch) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("Status") {
		return nil
	}

	var toSave ImportBatch
	switch dest := tx.Statement.Dest.(type) {
	case ImportBatch:
		toSave = dest
	case *ImportBatch:
		toSave = *dest
	default:
		return nil
	}

	if statusRank[toSave.Status] < statusRank[b.Status] {
		return ErrImportBatchStatusRegressed
	}

	return nil
}
