package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types. Amounts are always positive, the type determines
// whether money flows in or out of the account.
const (
	TransactionTypeExpense   = "expense"
	TransactionTypeIncome    = "income"
	TransactionTypeTransfer  = "transfer"
	TransactionTypeOwnerDraw = "owners_draw"
)

// Transaction represents a single financial transaction on an account.
type Transaction struct {
	DefaultModel
	AccountID     uuid.UUID
	Account       Account `json:"-"`
	Type          string
	CategoryID    *uuid.UUID
	Category      *Category       `json:"-"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date          time.Time
	Description   string
	Vendor        string
	Reference     string // Check number, confirmation code, etc.
	ImportBatchID *uuid.UUID
	ImportBatch   *ImportBatch `json:"-"`

	// Set on transactions generated from a recurring template
	RecurringSourceID *uuid.UUID
	RecurringSource   *RecurringTransaction `json:"-"`
}

func validTransactionType(t string) bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeIncome, TransactionTypeTransfer, TransactionTypeOwnerDraw:
		return true
	}

	return false
}

// BeforeSave verifies the transaction and sets the timezone
// for the Date to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if !validTransactionType(t.Type) {
		return ErrTransactionTypeInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	t.Description = strings.TrimSpace(t.Description)
	t.Vendor = strings.TrimSpace(t.Vendor)
	t.Reference = strings.TrimSpace(t.Reference)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Transaction)
	return t.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (t *Transaction) checkIntegrity(tx *gorm.DB, toSave Transaction) error {
	return tx.First(&Account{}, toSave.AccountID).Error
}

// AfterFind updates the Date to use UTC as timezone.
func (t *Transaction) AfterFind(_ *gorm.DB) (err error) {
	t.Date = t.Date.In(time.UTC)
	return nil
}
