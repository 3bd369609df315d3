package importer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"gorm.io/gorm"
)

// vocabularyEntry maps a category label as it appears on statements to
// the name of one of our categories.
type vocabularyEntry struct {
	label    string
	category string
}

// vocabulary is the fixed table of common statement categories. Order
// matters: when no exact match exists, substring matches are tried in
// table order and the first hit wins.
var vocabulary = []vocabularyEntry{
	{"business services", "Professional Services"},
	{"business services-other", "Professional Services"},
	{"office supplies", "Office Supplies"},
	{"computer supplies", "Equipment"},
	{"telecommunications", "Software & Subscriptions"},
	{"software", "Software & Subscriptions"},
	{"advertising", "Advertising & Marketing"},
	{"marketing", "Advertising & Marketing"},
	{"education", "Education & Training"},
	{"travel", "Travel"},
	{"airlines", "Travel"},
	{"hotels", "Travel"},
	{"rental cars", "Travel"},
	{"restaurants", "Meals & Entertainment"},
	{"restaurant", "Meals & Entertainment"},
	{"dining", "Meals & Entertainment"},
	{"fees & adjustments", "Bank Fees & Interest"},
	{"fees", "Bank Fees & Interest"},
	{"interest", "Bank Fees & Interest"},
	{"merchandise & supplies", "Office Supplies"},
	{"merchandise", "Office Supplies"},
	{"other", "Miscellaneous"},
}

type categoryMapEntry struct {
	label      string
	categoryID uuid.UUID
}

// CategoryMap resolves statement category labels to category IDs. It is
// built fresh for every import run so that it reflects the categories
// that are active right now.
type CategoryMap struct {
	entries []categoryMapEntry
}

// BuildCategoryMap resolves the vocabulary against the active expense
// categories. Vocabulary entries whose category does not exist are
// dropped.
func BuildCategoryMap(db *gorm.DB) (CategoryMap, error) {
	var categories []models.Category
	err := db.
		Where(models.Category{Type: models.CategoryTypeExpense, Active: true}).
		Find(&categories).Error
	if err != nil {
		return CategoryMap{}, err
	}

	byName := make(map[string]models.Category, len(categories))
	for _, category := range categories {
		byName[category.Name] = category
	}

	m := CategoryMap{}
	for _, entry := range vocabulary {
		if category, ok := byName[entry.category]; ok {
			m.entries = append(m.entries, categoryMapEntry{
				label:      entry.label,
				categoryID: category.ID,
			})
		}
	}

	return m, nil
}

// Suggest returns the category for a statement label. Exact matches are
// preferred; if there is none, the first entry that contains the label
// or is contained in it wins.
func (m CategoryMap) Suggest(label string) (uuid.UUID, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return uuid.Nil, false
	}

	for _, entry := range m.entries {
		if entry.label == key {
			return entry.categoryID, true
		}
	}

	for _, entry := range m.entries {
		if strings.Contains(key, entry.label) || strings.Contains(entry.label, key) {
			return entry.categoryID, true
		}
	}

	return uuid.Nil, false
}

// SuggestCategories fills in the suggested category for all records that
// do not have one yet, e.g. from a match rule.
func SuggestCategories(db *gorm.DB, records []ParsedRecord) error {
	m, err := BuildCategoryMap(db)
	if err != nil {
		return err
	}

	for i := range records {
		record := &records[i]
		if record.SuggestedCategoryID != nil {
			continue
		}

		if id, ok := m.Suggest(record.SourceCategory); ok {
			record.SuggestedCategoryID = &id
		}
	}

	return nil
}
