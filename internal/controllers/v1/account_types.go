package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountEditable represents all user configurable parameters
type AccountEditable struct {
	Name               string          `json:"name" example:"Business Checking" default:""`         // Name of the account
	Institution        string          `json:"institution" example:"First National Bank" default:""` // Bank or card issuer
	LastFour           string          `json:"lastFour" example:"1008" default:""`                   // Last four digits of the account number
	Note               string          `json:"note" example:"Primary operating account" default:""`  // Notes about the account
	Active             bool            `json:"active" example:"true" default:"false"`                // Is the account in use?
	OpeningBalance     decimal.Decimal `json:"openingBalance" example:"1540.33" default:"0"`         // Balance before the first recorded transaction
	OpeningBalanceDate *time.Time      `json:"openingBalanceDate" example:"2026-01-01T00:00:00Z"`    // Date of the opening balance
}

func (editable AccountEditable) model() models.Account {
	return models.Account{
		Name:               editable.Name,
		Institution:        editable.Institution,
		LastFour:           editable.LastFour,
		Note:               editable.Note,
		Active:             editable.Active,
		OpeningBalance:     editable.OpeningBalance,
		OpeningBalanceDate: editable.OpeningBalanceDate,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`              // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // Transactions for this account
}

type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`

	// These fields are computed
	Balance decimal.Decimal `json:"balance" example:"2735.17"` // Balance of the account, including all transactions
}

func newAccount(c *gin.Context, db *gorm.DB, model models.Account) (Account, error) {
	url := c.GetString(string(models.DBContextURL))

	account := Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:               model.Name,
			Institution:        model.Institution,
			LastFour:           model.LastFour,
			Note:               model.Note,
			Active:             model.Active,
			OpeningBalance:     model.OpeningBalance,
			OpeningBalanceDate: model.OpeningBalanceDate,
		},
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}

	balance, err := model.Balance(db, time.Now().In(time.UTC))
	if err != nil {
		return Account{}, err
	}
	account.Balance = balance

	return account, nil
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of Accounts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Data  []AccountResponse `json:"data"`                                                          // List of the created Accounts or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Data  *Account `json:"data"`                                                          // Data for the Account
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountQueryFilter struct {
	Name        string `form:"name" filterField:"false"`   // By name
	Institution string `form:"institution"`                // By institution
	Note        string `form:"note" filterField:"false"`   // By note
	Active      bool   `form:"active"`                     // Is the account active?
	Search      string `form:"search" filterField:"false"` // By string in name or note
	Offset      uint   `form:"offset" filterField:"false"` // The offset of the first Account returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`  // Maximum number of Accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() (models.Account, error) {
	return models.Account{
		Institution: f.Institution,
		Active:      f.Active,
	}, nil
}
