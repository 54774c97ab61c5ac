package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/pkg/cleanup"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

type CompletionsRepository struct {
	conn PgConnection
}

func NewCompletionsRepo(cfg DBConfig) *CompletionsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for completionsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &CompletionsRepository{
		conn: pool,
	}
}

func NewCompletionsRepoWithConn(conn PgConnection) *CompletionsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	return &CompletionsRepository{
		conn: conn,
	}
}

func (cr *CompletionsRepository) Create(ctx context.Context, planID, userID uuid.UUID, date string) error {
	_, err := cr.conn.Exec(
		ctx,
		`INSERT INTO completed (plan_id, user_id, date) VALUES ($1, $2, $3);`,
		planID,
		userID,
		date,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrMarkExists
			// FK violation
			case "23503":
				return errorvalues.ErrPlanNotFound
			}
		}
		return errors.New("creating completion mark error: " + err.Error())
	}
	return nil
}

func (cr *CompletionsRepository) Delete(ctx context.Context, planID, userID uuid.UUID, date string) error {
	ct, err := cr.conn.Exec(
		ctx,
		`DELETE FROM completed WHERE plan_id = $1 AND user_id = $2 AND date = $3;`,
		planID,
		userID,
		date,
	)
	if err != nil {
		return errors.New("deleting completion mark error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMarkNotFound
	}
	return nil
}

func (cr *CompletionsRepository) Exists(ctx context.Context, planID, userID uuid.UUID, date string) (bool, error) {
	var exists bool
	row := cr.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM completed WHERE plan_id = $1 AND user_id = $2 AND date = $3);`,
		planID,
		userID,
		date,
	)
	err := row.Scan(&exists)
	if err != nil {
		return false, errors.New("inspecting if completion mark exists error: " + err.Error())
	}
	return exists, nil
}

func (cr *CompletionsRepository) GetByPlanAndUser(ctx context.Context, planID, userID uuid.UUID) ([]string, error) {
	rows, err := cr.conn.Query(
		ctx,
		`SELECT date FROM completed WHERE plan_id = $1 AND user_id = $2 ORDER BY date;`,
		planID,
		userID,
	)
	if err != nil {
		return nil, errors.New("getting completion marks error: " + err.Error())
	}
	defer rows.Close()
	result := make([]string, 0)
	for rows.Next() {
		var date time.Time
		err = rows.Scan(&date)
		if err != nil {
			return nil, errors.New("completion mark row parsing error: " + err.Error())
		}
		result = append(result, date.Format(schedule.DateLayout))
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected completion mark rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (cr *CompletionsRepository) CountByPlanAndUser(ctx context.Context, planID, userID uuid.UUID) (int, error) {
	row := cr.conn.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM completed WHERE plan_id = $1 AND user_id = $2;`,
		planID,
		userID,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting completion marks: " + err.Error())
	}
	return count, nil
}
