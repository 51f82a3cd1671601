package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
)

// Contract represents a tenancy agreement. Terms are immutable once active;
// only the status may change afterwards.
type Contract struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OwnerID       uuid.UUID       `json:"owner_id" db:"owner_id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	PropertyID    uuid.UUID       `json:"property_id" db:"property_id"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent" db:"monthly_rent"`
	DepositAmount decimal.Decimal `json:"deposit_amount" db:"deposit_amount"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       time.Time       `json:"end_date" db:"end_date"`
	DueDay        int             `json:"due_day" db:"due_day"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the contract still generates rent dues.
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// DTOs for requests and responses

type CreateContractRequest struct {
	OwnerID       uuid.UUID       `json:"owner_id" validate:"required"`
	TenantID      uuid.UUID       `json:"tenant_id" validate:"required"`
	PropertyID    uuid.UUID       `json:"property_id" validate:"required"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent" validate:"required"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	StartDate     time.Time       `json:"start_date" validate:"required"`
	EndDate       time.Time       `json:"end_date" validate:"required"`
	DueDay        int             `json:"due_day" validate:"required,min=1,max=31"`
}

type CreateContractResponse struct {
	Contract *Contract  `json:"contract"`
	Payments []*Payment `json:"payments"`
}
