package importer

import (
	"github.com/ledgerline/backend/internal/models"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// ApplyMatchRules sets the suggested category for every record whose
// vendor matches a rule. Since rules are loaded in priority order, the
// first matching rule wins. Match rules take precedence over the
// built-in vocabulary, so this runs before SuggestCategories.
func ApplyMatchRules(db *gorm.DB, records []ParsedRecord) error {
	var rules []models.MatchRule
	err := db.Order("priority ASC").Find(&rules).Error
	if err != nil {
		return err
	}

	if len(rules) == 0 {
		return nil
	}

	for i := range records {
		record := &records[i]
		if record.Vendor == "" {
			continue
		}

		for _, rule := range rules {
			if glob.Glob(rule.Match, record.Vendor) {
				id := rule.CategoryID
				record.SuggestedCategoryID = &id
				break
			}
		}
	}

	return nil
}
