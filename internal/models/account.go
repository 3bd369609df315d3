package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account represents a business account, e.g. a checking account or a
// credit card, that transactions are recorded against.
type Account struct {
	DefaultModel
	Name               string `gorm:"uniqueIndex"`
	Institution        string
	LastFour           string // Last four digits of the account number
	Note               string
	Active             bool
	OpeningBalance     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	OpeningBalanceDate *time.Time
}

// BeforeSave trims whitespace from all strings.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Institution = strings.TrimSpace(a.Institution)
	a.LastFour = strings.TrimSpace(a.LastFour)
	a.Note = strings.TrimSpace(a.Note)

	return nil
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	db.Where(Transaction{AccountID: a.ID}).Find(&transactions)
	return transactions
}

// Balance calculates the account balance at a specific point in time,
// starting from the opening balance. Income adds to the balance, all
// other transaction types subtract from it.
func (a Account) Balance(db *gorm.DB, t time.Time) (decimal.Decimal, error) {
	var transactions []Transaction

	err := db.
		Where(Transaction{AccountID: a.ID}).
		Where("datetime(transactions.date) < datetime(?)", t).
		Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	if a.OpeningBalanceDate == nil || t.After(*a.OpeningBalanceDate) {
		balance = a.OpeningBalance
	}

	for _, transaction := range transactions {
		if transaction.Type == TransactionTypeIncome {
			balance = balance.Add(transaction.Amount)
		} else {
			balance = balance.Sub(transaction.Amount)
		}
	}

	return balance, nil
}
