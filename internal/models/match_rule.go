package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRule maps vendors parsed from statement files to a category.
// The Match pattern supports globbing with "*".
type MatchRule struct {
	DefaultModel
	Priority   uint
	Match      string
	CategoryID uuid.UUID
	Category   Category `json:"-"`
}

func (m *MatchRule) BeforeSave(_ *gorm.DB) error {
	m.Match = strings.TrimSpace(m.Match)

	if m.Match == "" {
		return ErrMatchRulePatternEmpty
	}

	return nil
}

func (m *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*MatchRule)
	return tx.First(&Category{}, toSave.CategoryID).Error
}
