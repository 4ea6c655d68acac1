package mapping

import (
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/bizbooks/ledger_backend/internal/models"
)

// ToModelAccount converts a domain account to its model representation.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		TenantID:        d.TenantID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: d.ParentAccountID,
		Description:     d.Description,
		IsActive:        d.IsActive,
		Balance:         d.Balance,
		DebitTotal:      d.DebitTotal,
		CreditTotal:     d.CreditTotal,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model account to its domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		IsActive:        m.IsActive,
		Balance:         m.Balance,
		DebitTotal:      m.DebitTotal,
		CreditTotal:     m.CreditTotal,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
