package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Frequencies a recurring transaction can be generated with.
const (
	RecurringFrequencyMonthly   = "monthly"
	RecurringFrequencyQuarterly = "quarterly"
	RecurringFrequencyAnnually  = "annually"
)

// RecurringTransaction is a template from which transactions are
// generated on a schedule, e.g. a monthly subscription.
type RecurringTransaction struct {
	DefaultModel
	AccountID     uuid.UUID
	Account       Account `json:"-"`
	CategoryID    uuid.UUID
	Category      Category `json:"-"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Description   string
	Vendor        string
	Frequency     string
	DayOfMonth    int // 1-31, clamped to the last day of shorter months
	StartDate     time.Time
	EndDate       *time.Time // nil for ongoing templates
	Active        bool
	LastGenerated *time.Time
	NextDue       time.Time
}

func validRecurringFrequency(f string) bool {
	switch f {
	case RecurringFrequencyMonthly, RecurringFrequencyQuarterly, RecurringFrequencyAnnually:
		return true
	}

	return false
}

// BeforeSave verifies the template and sets the timezone for all dates
// to UTC.
func (r *RecurringTransaction) BeforeSave(_ *gorm.DB) error {
	if !validRecurringFrequency(r.Frequency) {
		return ErrRecurringFrequencyInvalid
	}

	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return ErrRecurringDayOfMonthInvalid
	}

	if !r.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	r.Description = strings.TrimSpace(r.Description)
	r.Vendor = strings.TrimSpace(r.Vendor)

	r.StartDate = r.StartDate.In(time.UTC)

	// A new template is due for the first time on its start date
	if r.NextDue.IsZero() {
		r.NextDue = r.StartDate
	}
	r.NextDue = r.NextDue.In(time.UTC)

	if r.EndDate != nil {
		end := r.EndDate.In(time.UTC)
		r.EndDate = &end
	}

	return nil
}

// AfterFind updates all dates to use UTC as timezone.
func (r *RecurringTransaction) AfterFind(_ *gorm.DB) error {
	r.StartDate = r.StartDate.In(time.UTC)
	r.NextDue = r.NextDue.In(time.UTC)

	if r.EndDate != nil {
		end := r.EndDate.In(time.UTC)
		r.EndDate = &end
	}

	if r.LastGenerated != nil {
		last := r.LastGenerated.In(time.UTC)
		r.LastGenerated = &last
	}

	return nil
}

func (r *RecurringTransaction) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*RecurringTransaction)
	return r.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (r *RecurringTransaction) checkIntegrity(tx *gorm.DB, toSave RecurringTransaction) error {
	err := tx.First(&Account{}, toSave.AccountID).Error
	if err != nil {
		return err
	}

	return tx.First(&Category{}, toSave.CategoryID).Error
}
