package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/pkg/cleanup"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

type PlansRepository struct {
	conn PgConnection
}

func NewPlansRepo(cfg DBConfig) *PlansRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for plansRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for plansRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &PlansRepository{
		conn: pool,
	}
}

func NewPlansRepoWithConn(conn PgConnection) *PlansRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for plansRepo: " + err.Error())
	}
	return &PlansRepository{
		conn: conn,
	}
}

func (pr *PlansRepository) Create(ctx context.Context, plan *entity.Plan) (uuid.UUID, error) {
	if plan == nil {
		return uuid.UUID{}, errors.New("plan is nil")
	}
	var id uuid.UUID
	row := pr.conn.QueryRow(ctx,
		`INSERT INTO plans (creator_id, title, description, start_date, end_date) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		plan.CreatorID,
		plan.Title,
		plan.Description,
		plan.StartDate,
		plan.EndDate,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating plan db error: " + err.Error())
	}
	return id, nil
}

func (pr *PlansRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Plan, error) {
	var (
		plan       entity.Plan
		start, end time.Time
	)
	plan.ID = id
	row := pr.conn.QueryRow(ctx,
		`SELECT creator_id, title, description, start_date, end_date, created_at FROM plans WHERE id = $1;`, id)
	if err := row.Scan(&plan.CreatorID, &plan.Title, &plan.Description, &start, &end, &plan.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrPlanNotFound
		}
		return nil, errors.New("getting plan by id error: " + err.Error())
	}
	plan.StartDate = start.Format(schedule.DateLayout)
	plan.EndDate = end.Format(schedule.DateLayout)
	return &plan, nil
}

func (pr *PlansRepository) GetByCreator(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Plan, error) {
	plans := make([]*entity.Plan, 0)
	rows, err := pr.conn.Query(ctx, `SELECT id, creator_id, title, description, start_date, end_date, created_at
		FROM plans WHERE creator_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting plans by creator error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p          entity.Plan
			start, end time.Time
		)
		err = rows.Scan(&p.ID, &p.CreatorID, &p.Title, &p.Description, &start, &end, &p.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling plan error: " + err.Error())
		}
		p.StartDate = start.Format(schedule.DateLayout)
		p.EndDate = end.Format(schedule.DateLayout)
		plans = append(plans, &p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return plans, nil
}

func (pr *PlansRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := pr.conn.Exec(ctx, `DELETE FROM plans WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting plan: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrPlanNotFound
	}
	return nil
}
