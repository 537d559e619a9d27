package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surendar2011/courseApp/internal/domain/course"
	"github.com/surendar2011/courseApp/internal/observability"
)

type CoursesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewCoursesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CoursesRepo {
	return &CoursesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *CoursesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *CoursesRepo) Create(ctx context.Context, req course.CreateCourseRequest, creatorID string) (course.Course, error) {
	c := course.NewFromCreateRequest(req, creatorID)

	err := r.observe("courses.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO courses (id, title, description, image_url, price, creator_id, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			c.ID, c.Title, c.Description, c.ImageURL, c.Price, c.CreatorID, c.CreatedAt, c.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return course.Course{}, err
	}

	return c, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, description, image_url, price, creator_id, created_at, updated_at
			 FROM courses
			 WHERE id = $1`,
			id,
		).Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Price, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// ListAll returns the whole public catalog.
func (r *CoursesRepo) ListAll(ctx context.Context) ([]course.Course, error) {
	return r.list(ctx, "courses.list_all",
		`SELECT id, title, description, image_url, price, creator_id, created_at, updated_at
		 FROM courses
		 ORDER BY created_at ASC, id ASC`,
	)
}

// ListByCreator returns only the courses owned by one admin.
func (r *CoursesRepo) ListByCreator(ctx context.Context, creatorID string) ([]course.Course, error) {
	return r.list(ctx, "courses.list_by_creator",
		`SELECT id, title, description, image_url, price, creator_id, created_at, updated_at
		 FROM courses
		 WHERE creator_id = $1
		 ORDER BY created_at ASC, id ASC`,
		creatorID,
	)
}

// ListByIDs resolves course details for a set of ids (purchased courses).
func (r *CoursesRepo) ListByIDs(ctx context.Context, ids []string) ([]course.Course, error) {
	if len(ids) == 0 {
		return []course.Course{}, nil
	}

	return r.list(ctx, "courses.list_by_ids",
		`SELECT id, title, description, image_url, price, creator_id, created_at, updated_at
		 FROM courses
		 WHERE id = ANY($1)
		 ORDER BY created_at ASC, id ASC`,
		ids,
	)
}

func (r *CoursesRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]course.Course, error) {
	var rows pgx.Rows

	err := r.observe(op, func() error {
		var e error
		rows, e = r.pool.Query(ctx, query, args...)
		return e
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]course.Course, 0)

	for rows.Next() {
		var c course.Course

		err = rows.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Price, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)

		if err != nil {
			return nil, err
		}

		output = append(output, c)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return output, nil
}

// UpdateOwned patches a course, but only when creatorID matches the stored
// creator. A non-owned existing course and a missing course both come back as
// course.ErrNotFound so callers cannot probe for existence.
func (r *CoursesRepo) UpdateOwned(ctx context.Context, creatorID string, req course.UpdateCourseRequest) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.update_owned", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE courses
				SET title = COALESCE($3, title),
					description = COALESCE($4, description),
					image_url = COALESCE($5, image_url),
					price = COALESCE($6, price),
					updated_at = NOW()
			 WHERE id = $1 AND creator_id = $2
			 RETURNING id, title, description, image_url, price, creator_id, created_at, updated_at`,
			req.CourseID,
			creatorID,
			req.Title,
			req.Description,
			req.ImageURL,
			req.Price,
		).Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.ImageURL,
			&c.Price,
			&c.CreatorID,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
	})

	if err != nil {
		// covers missing id as well as "exists but owned by someone else"
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// DeleteOwned removes a course under the same ownership rule as UpdateOwned.
func (r *CoursesRepo) DeleteOwned(ctx context.Context, creatorID, courseID string) error {
	var tag int64

	err := r.observe("courses.delete_owned", func() error {
		res, e := r.pool.Exec(ctx,
			`DELETE FROM courses WHERE id = $1 AND creator_id = $2`,
			courseID, creatorID,
		)

		if e != nil {
			return e
		}

		tag = res.RowsAffected()
		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		// purchases.course_id references this row; the ledger is append-only,
		// so a purchased course cannot be deleted
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return course.ErrHasPurchases
		}

		return err
	}

	if tag == 0 {
		return course.ErrNotFound
	}

	return nil
}
