package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/thq-service/internal/domain"
)

// NonsigRepository defines persistence access for customer accounts.
type NonsigRepository interface {
	Create(ctx context.Context, nonsig *domain.Nonsig) error
	Update(ctx context.Context, nonsig *domain.Nonsig) error
	GetByCode(ctx context.Context, code string) (*domain.Nonsig, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Nonsig, error)
}

type nonsigRepository struct {
	pool *pgxpool.Pool
}

// NewNonsigRepository returns a Postgres-backed implementation.
func NewNonsigRepository(pool *pgxpool.Pool) NonsigRepository {
	return &nonsigRepository{pool: pool}
}

const nonsigColumns = `
        ns_id, ns_nonsig, ns_trade_style, ns_addr1, ns_addr2, ns_city, ns_state,
        ns_postal_code, ns_country, ns_brand_key, ns_is_active, ns_is_active_thq,
        ns_type, created_at, updated_at`

func (r *nonsigRepository) Create(ctx context.Context, nonsig *domain.Nonsig) error {
	const query = `
        INSERT INTO sys_customer (
            ns_id, ns_nonsig, ns_trade_style, ns_addr1, ns_addr2, ns_city,
            ns_state, ns_postal_code, ns_country, ns_brand_key, ns_is_active,
            ns_is_active_thq, ns_type
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		nonsig.ID,
		nonsig.Code,
		nonsig.TradeStyle,
		nonsig.Addr1,
		nonsig.Addr2,
		nonsig.City,
		nonsig.State,
		nonsig.PostalCode,
		nonsig.Country,
		nonsig.BrandKey,
		nonsig.IsActive,
		nonsig.IsActiveTHQ,
		nonsig.Type,
	).Scan(&nonsig.CreatedAt, &nonsig.UpdatedAt)
}

func (r *nonsigRepository) Update(ctx context.Context, nonsig *domain.Nonsig) error {
	const query = `
        UPDATE sys_customer
        SET ns_trade_style=$1, ns_addr1=$2, ns_addr2=$3, ns_city=$4, ns_state=$5,
            ns_postal_code=$6, ns_country=$7, ns_brand_key=$8, ns_is_active=$9,
            ns_is_active_thq=$10, ns_type=$11, updated_at=NOW()
        WHERE ns_id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		nonsig.TradeStyle,
		nonsig.Addr1,
		nonsig.Addr2,
		nonsig.City,
		nonsig.State,
		nonsig.PostalCode,
		nonsig.Country,
		nonsig.BrandKey,
		nonsig.IsActive,
		nonsig.IsActiveTHQ,
		nonsig.Type,
		nonsig.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *nonsigRepository) GetByCode(ctx context.Context, code string) (*domain.Nonsig, error) {
	query := `SELECT ` + nonsigColumns + ` FROM sys_customer WHERE ns_nonsig=$1`

	var nonsig domain.Nonsig
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&nonsig.ID,
		&nonsig.Code,
		&nonsig.TradeStyle,
		&nonsig.Addr1,
		&nonsig.Addr2,
		&nonsig.City,
		&nonsig.State,
		&nonsig.PostalCode,
		&nonsig.Country,
		&nonsig.BrandKey,
		&nonsig.IsActive,
		&nonsig.IsActiveTHQ,
		&nonsig.Type,
		&nonsig.CreatedAt,
		&nonsig.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &nonsig, nil
}

func (r *nonsigRepository) List(ctx context.Context, includeInactive bool) ([]domain.Nonsig, error) {
	query := `SELECT ` + nonsigColumns + ` FROM sys_customer`
	if !includeInactive {
		query += ` WHERE ns_is_active AND ns_is_active_thq`
	}
	query += ` ORDER BY ns_nonsig`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nonsigs []domain.Nonsig
	for rows.Next() {
		var nonsig domain.Nonsig
		if err := rows.Scan(
			&nonsig.ID,
			&nonsig.Code,
			&nonsig.TradeStyle,
			&nonsig.Addr1,
			&nonsig.Addr2,
			&nonsig.City,
			&nonsig.State,
			&nonsig.PostalCode,
			&nonsig.Country,
			&nonsig.BrandKey,
			&nonsig.IsActive,
			&nonsig.IsActiveTHQ,
			&nonsig.Type,
			&nonsig.CreatedAt,
			&nonsig.UpdatedAt,
		); err != nil {
			return nil, err
		}
		nonsigs = append(nonsigs, nonsig)
	}
	return nonsigs, rows.Err()
}
