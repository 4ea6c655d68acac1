package mapping

import (
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/bizbooks/ledger_backend/internal/models"
)

// ToDomainProduct converts a model product to its domain representation.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:     m.ProductID,
		TenantID:      m.TenantID,
		Name:          m.Name,
		CostPrice:     m.CostPrice,
		StockQuantity: m.StockQuantity,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockMovement converts a domain stock movement to its model representation.
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:   d.MovementID,
		TenantID:     d.TenantID,
		ProductID:    d.ProductID,
		MovementType: string(d.MovementType),
		Quantity:     d.Quantity,
		Reference:    d.Reference,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockMovement converts a model stock movement to its domain representation.
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:   m.MovementID,
		TenantID:     m.TenantID,
		ProductID:    m.ProductID,
		MovementType: domain.StockMovementType(m.MovementType),
		Quantity:     m.Quantity,
		Reference:    m.Reference,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
