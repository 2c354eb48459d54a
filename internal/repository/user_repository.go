package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/thq-service/internal/domain"
)

// UserRepository defines persistence access for THQ user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// ConfirmByKey atomically matches a confirmation key, stores the password
	// hash, marks the account confirmed and clears the key. Returns
	// pgx.ErrNoRows when no account carries the key.
	ConfirmByKey(ctx context.Context, key, passwordHash string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
        sys_id, username, email, first_name, last_name, phone, default_nonsig,
        role, is_locked, is_confirmed, confirmation_key, password_hash,
        created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO sys_user (
            sys_id, username, email, first_name, last_name, phone,
            default_nonsig, role, is_locked, is_confirmed, confirmation_key
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.DefaultNonsig,
		user.Role,
		user.IsLocked,
		user.IsConfirmed,
		user.ConfirmationKey,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE sys_user
        SET username=$1, email=$2, first_name=$3, last_name=$4, phone=$5,
            default_nonsig=$6, role=$7, is_locked=$8, updated_at=NOW()
        WHERE sys_id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.DefaultNonsig,
		user.Role,
		user.IsLocked,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "sys_id", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM sys_user WHERE ` + column + `=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.DefaultNonsig,
		&user.Role,
		&user.IsLocked,
		&user.IsConfirmed,
		&user.ConfirmationKey,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM sys_user ORDER BY username`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Phone,
			&user.DefaultNonsig,
			&user.Role,
			&user.IsLocked,
			&user.IsConfirmed,
			&user.ConfirmationKey,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) ConfirmByKey(ctx context.Context, key, passwordHash string) error {
	const query = `
        UPDATE sys_user
        SET password_hash=$1, is_confirmed=TRUE, confirmation_key=NULL, updated_at=NOW()
        WHERE confirmation_key=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE sys_user SET password_hash=$1, updated_at=NOW()
        WHERE sys_id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
