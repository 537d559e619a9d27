package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surendar2011/courseApp/internal/domain/principal"
	"github.com/surendar2011/courseApp/internal/observability"
)

// isUniqueViolation reports whether err is a duplicate-key error on the named
// constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

type PrincipalsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPrincipalsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PrincipalsRepo {
	return &PrincipalsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PrincipalsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *PrincipalsRepo) Create(ctx context.Context, p principal.Principal) (principal.Principal, error) {
	err := r.observe("principals.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO principals (id, role, email, password_hash, first_name, last_name, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.ID, p.Role, p.Email, p.PasswordHash, p.FirstName, p.LastName, p.CreatedAt, p.UpdatedAt,
		)
		return e
	})

	if err != nil {
		if isUniqueViolation(err, "principals_role_email_uniq") {
			return principal.Principal{}, principal.ErrEmailTaken
		}

		return principal.Principal{}, err
	}

	return p, nil
}

// GetByEmail looks the principal up within one role; the same address may
// legitimately exist once per role.
func (r *PrincipalsRepo) GetByEmail(ctx context.Context, role principal.Role, email string) (principal.Principal, error) {
	var p principal.Principal

	err := r.observe("principals.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, role, email, password_hash, first_name, last_name, created_at, updated_at
			 FROM principals
			 WHERE role = $1 AND email = $2`,
			role, principal.NormalizeEmail(email),
		).Scan(
			&p.ID,
			&p.Role,
			&p.Email,
			&p.PasswordHash,
			&p.FirstName,
			&p.LastName,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return principal.Principal{}, principal.ErrNotFound
		}

		return principal.Principal{}, err
	}
	return p, nil
}

func (r *PrincipalsRepo) GetByID(ctx context.Context, role principal.Role, id string) (principal.Principal, error) {
	var p principal.Principal

	err := r.observe("principals.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, role, email, password_hash, first_name, last_name, created_at, updated_at
			 FROM principals
			 WHERE role = $1 AND id = $2`,
			role, id,
		).Scan(
			&p.ID,
			&p.Role,
			&p.Email,
			&p.PasswordHash,
			&p.FirstName,
			&p.LastName,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return principal.Principal{}, principal.ErrNotFound
		}

		return principal.Principal{}, err
	}
	return p, nil
}
