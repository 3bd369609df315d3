// Package recurring generates transactions from recurring templates,
// e.g. monthly subscriptions or quarterly insurance payments.
package recurring

import (
	"time"

	"github.com/ledgerline/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var transactionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ledgerline_recurring_transactions_generated_total",
	Help: "Number of transactions generated from recurring templates",
})

// Result summarizes one generation run.
type Result struct {
	Created uint `json:"created" example:"2"` // Number of transactions created
	Skipped uint `json:"skipped" example:"1"` // Number of templates skipped because their end date has passed
}

// Generate creates transactions from all active templates that are due
// on or before the effective date. A template that has missed several
// periods catches up with one transaction per period. With dryRun set,
// nothing is written and the result reports what a real run would
// create.
func Generate(db *gorm.DB, effective time.Time, dryRun bool) (Result, error) {
	effective = effective.In(time.UTC)

	var templates []models.RecurringTransaction
	err := db.
		Where(models.RecurringTransaction{Active: true}).
		Where("datetime(next_due) <= datetime(?)", effective).
		Find(&templates).Error
	if err != nil {
		return Result{}, err
	}

	var result Result

	for i := range templates {
		template := &templates[i]

		if template.EndDate != nil && template.EndDate.Before(effective) {
			result.Skipped++
			continue
		}

		err := generateFromTemplate(db, template, effective, dryRun, &result)
		if err != nil {
			return result, err
		}
	}

	if !dryRun {
		transactionsGenerated.Add(float64(result.Created))
	}

	log.Info().
		Time("effective", effective).
		Bool("dry-run", dryRun).
		Uint("created", result.Created).
		Uint("skipped", result.Skipped).
		Msg("recurring transactions generated")

	return result, nil
}

// generateFromTemplate creates one transaction per due period and
// advances the template. Templates whose next due date moves past their
// end date are deactivated.
func generateFromTemplate(db *gorm.DB, template *models.RecurringTransaction, effective time.Time, dryRun bool, result *Result) error {
	for !template.NextDue.After(effective) {
		if !dryRun {
			categoryID := template.CategoryID
			transaction := models.Transaction{
				AccountID:         template.AccountID,
				Type:              models.TransactionTypeExpense,
				CategoryID:        &categoryID,
				Amount:            template.Amount,
				Date:              template.NextDue,
				Description:       template.Description,
				Vendor:            template.Vendor,
				RecurringSourceID: &template.ID,
			}

			err := db.Create(&transaction).Error
			if err != nil {
				return err
			}
		}

		result.Created++

		due := template.NextDue
		next := nextDueDate(due, template.Frequency, template.DayOfMonth)

		template.LastGenerated = &due
		template.NextDue = next

		reachedEnd := template.EndDate != nil && next.After(*template.EndDate)
		if reachedEnd {
			template.Active = false
		}

		if !dryRun {
			err := db.Model(template).Select("LastGenerated", "NextDue", "Active").Updates(*template).Error
			if err != nil {
				return err
			}
		}

		if reachedEnd {
			break
		}
	}

	return nil
}

// nextDueDate advances a due date by one period and places it on the
// template's day of month, clamped to the last day of shorter months.
func nextDueDate(current time.Time, frequency string, dayOfMonth int) time.Time {
	months := 1
	switch frequency {
	case models.RecurringFrequencyQuarterly:
		months = 3
	case models.RecurringFrequencyAnnually:
		months = 12
	}

	// Advance from the first of the month so that the addition cannot
	// overflow past the target month
	first := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)

	day := dayOfMonth
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the month. Day zero of the
// following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
