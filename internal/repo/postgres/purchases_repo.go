package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surendar2011/courseApp/internal/domain/course"
	"github.com/surendar2011/courseApp/internal/domain/purchase"
	"github.com/surendar2011/courseApp/internal/observability"
)

type PurchasesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPurchasesRepo(pool *pgxpool.Pool, prom *observability.Prom) *PurchasesRepo {
	return &PurchasesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PurchasesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create records that a user acquired a course. The unique constraint on
// (user_id, course_id) is the source of truth for duplicates: two concurrent
// attempts both reach the INSERT and exactly one wins, no prior existence
// query to race against.
func (r *PurchasesRepo) Create(ctx context.Context, userID, courseID string) (p purchase.Purchase, err error) {
	// confirm the course exists first so the common failure reads cleanly

	var exists bool

	err = r.observe("purchases.create.course_check", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID,
		).Scan(&exists)
	})

	if err != nil {
		return
	}

	if !exists {
		err = course.ErrNotFound
		return
	}

	p = purchase.New(userID, courseID)

	err = r.observe("purchases.create.insert", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO purchases (id, user_id, course_id, created_at)
			 VALUES ($1,$2,$3,$4)`,
			p.ID, p.UserID, p.CourseID, p.CreatedAt,
		)
		return e
	})

	if err != nil {
		p = purchase.Purchase{}

		if isUniqueViolation(err, "purchases_user_course_uniq") {
			err = purchase.ErrAlreadyPurchased
			return
		}

		// course deleted between the check and the insert
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			err = course.ErrNotFound
			return
		}

		return
	}

	return
}

func (r *PurchasesRepo) ListByUser(ctx context.Context, userID string) (purchases []purchase.Purchase, err error) {
	var rows pgx.Rows

	err = r.observe("purchases.list_by_user", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT id, user_id, course_id, created_at
			 FROM purchases
			 WHERE user_id = $1
			 ORDER BY created_at ASC, id ASC`,
			userID,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	purchases = make([]purchase.Purchase, 0)

	for rows.Next() {
		var p purchase.Purchase

		e := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.CreatedAt)

		if e != nil {
			err = e
			return
		}
		purchases = append(purchases, p)
	}

	err = rows.Err()

	return
}
