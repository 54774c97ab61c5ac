package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/pkg/cleanup"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

type MFARepository struct {
	conn PgConnection
}

func NewMFARepo(cfg DBConfig) *MFARepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for mfaRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for mfaRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &MFARepository{
		conn: pool,
	}
}

func NewMFARepoWithConn(conn PgConnection) *MFARepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for mfaRepo: " + err.Error())
	}
	return &MFARepository{
		conn: conn,
	}
}

func (mr *MFARepository) CreateFactor(ctx context.Context, factor *entity.MFAFactor) error {
	if factor == nil {
		return errors.New("factor is nil")
	}
	_, err := mr.conn.Exec(
		ctx,
		`INSERT INTO mfa_factors (id, user_id, factor_type, status, secret) VALUES ($1, $2, $3, $4, $5);`,
		factor.ID,
		factor.UserID,
		factor.Type,
		factor.Status,
		factor.Secret,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("creating mfa factor error: " + err.Error())
	}
	return nil
}

func (mr *MFARepository) GetFactorByID(ctx context.Context, id uuid.UUID) (*entity.MFAFactor, error) {
	var factor entity.MFAFactor
	factor.ID = id
	row := mr.conn.QueryRow(ctx,
		`SELECT user_id, factor_type, status, secret, created_at FROM mfa_factors WHERE id = $1;`, id)
	if err := row.Scan(&factor.UserID, &factor.Type, &factor.Status, &factor.Secret, &factor.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrFactorNotFound
		}
		return nil, errors.New("getting mfa factor error: " + err.Error())
	}
	return &factor, nil
}

func (mr *MFARepository) GetFactorsByUser(ctx context.Context, uid uuid.UUID) ([]*entity.MFAFactor, error) {
	factors := make([]*entity.MFAFactor, 0)
	rows, err := mr.conn.Query(ctx,
		`SELECT id, user_id, factor_type, status, secret, created_at FROM mfa_factors WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("getting mfa factors by user error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		f := entity.MFAFactor{}
		err = rows.Scan(&f.ID, &f.UserID, &f.Type, &f.Status, &f.Secret, &f.CreatedAt)
		if err != nil {
			return nil, errors.New("mfa factor row parsing error: " + err.Error())
		}
		factors = append(factors, &f)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected mfa factor rows error: " + rows.Err().Error())
	}
	return factors, nil
}

func (mr *MFARepository) UpdateFactorStatus(ctx context.Context, id uuid.UUID, status string) error {
	ct, err := mr.conn.Exec(ctx, `UPDATE mfa_factors SET status = $1 WHERE id = $2;`, status, id)
	if err != nil {
		return errors.New("updating mfa factor status error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrFactorNotFound
	}
	return nil
}

func (mr *MFARepository) DeleteFactor(ctx context.Context, id uuid.UUID) error {
	ct, err := mr.conn.Exec(ctx, `DELETE FROM mfa_factors WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting mfa factor error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrFactorNotFound
	}
	return nil
}

func (mr *MFARepository) CreateChallenge(ctx context.Context, challenge *entity.MFAChallenge) error {
	if challenge == nil {
		return errors.New("challenge is nil")
	}
	_, err := mr.conn.Exec(
		ctx,
		`INSERT INTO mfa_challenges (id, factor_id, expires_at) VALUES ($1, $2, $3);`,
		challenge.ID,
		challenge.FactorID,
		challenge.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrFactorNotFound
			}
		}
		return errors.New("creating mfa challenge error: " + err.Error())
	}
	return nil
}

func (mr *MFARepository) GetChallenge(ctx context.Context, id uuid.UUID) (*entity.MFAChallenge, error) {
	var challenge entity.MFAChallenge
	challenge.ID = id
	row := mr.conn.QueryRow(ctx,
		`SELECT factor_id, created_at, expires_at FROM mfa_challenges WHERE id = $1;`, id)
	if err := row.Scan(&challenge.FactorID, &challenge.CreatedAt, &challenge.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrChallengeNotFound
		}
		return nil, errors.New("getting mfa challenge error: " + err.Error())
	}
	return &challenge, nil
}

func (mr *MFARepository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	ct, err := mr.conn.Exec(ctx, `DELETE FROM mfa_challenges WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting mfa challenge error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrChallengeNotFound
	}
	return nil
}
