package dto

import (
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for explicit account creation.
// Creation is idempotent on (tenant, code): posting the same code twice
// returns the existing account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentCode  string             `json:"parentCode"`
	Description string             `json:"description"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	ParentCode  string             `json:"parentCode,omitempty"`
	Description string             `json:"description,omitempty"`
	IsActive    bool               `json:"isActive"`
	Balance     decimal.Decimal    `json:"balance"`
	DebitTotal  decimal.Decimal    `json:"debitTotal"`
	CreditTotal decimal.Decimal    `json:"creditTotal"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: a.AccountType,
		Description: a.Description,
		IsActive:    a.IsActive,
		Balance:     a.Balance,
		DebitTotal:  a.DebitTotal,
		CreditTotal: a.CreditTotal,
		CreatedAt:   a.CreatedAt,
	}
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain accounts.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = ToAccountResponse(&accounts[i])
	}
	return resp
}
