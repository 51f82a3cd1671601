package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rentora/billing-engine/internal/domain"
)

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	query := `
		INSERT INTO contracts (id, owner_id, tenant_id, property_id, monthly_rent, deposit_amount, start_date, end_date, due_day, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		contract.ID,
		contract.OwnerID,
		contract.TenantID,
		contract.PropertyID,
		contract.MonthlyRent,
		contract.DepositAmount,
		contract.StartDate,
		contract.EndDate,
		contract.DueDay,
		contract.Status,
		contract.CreatedAt,
		contract.UpdatedAt,
	)

	return err
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	query := `
		SELECT id, owner_id, tenant_id, property_id, monthly_rent, deposit_amount, start_date, end_date, due_day, status, created_at, updated_at
		FROM contracts
		WHERE id = $1
	`

	var contract domain.Contract
	err := r.db.GetContext(ctx, &contract, query, id)
	if err != nil {
		return nil, err
	}

	return &contract, nil
}

func (r *contractRepository) ListActive(ctx context.Context) ([]*domain.Contract, error) {
	query := `
		SELECT id, owner_id, tenant_id, property_id, monthly_rent, deposit_amount, start_date, end_date, due_day, status, created_at, updated_at
		FROM contracts
		WHERE status = 'active'
		ORDER BY created_at
	`

	var contracts []*domain.Contract
	err := r.db.SelectContext(ctx, &contracts, query)
	if err != nil {
		return nil, err
	}

	return contracts, nil
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE contracts
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}
