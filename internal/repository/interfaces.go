package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmad4804/goal-tracker/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Can be used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type PlansRepositoryI interface {
	// Creates new plan. Only CreatorID, Title, Description and dates are read
	Create(ctx context.Context, plan *entity.Plan) (uuid.UUID, error)
	// Searches plan with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Plan, error)
	// Lists plans created by user with uid. Requires pagination params provided
	GetByCreator(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Plan, error)
	// Deletes plan with id
	Delete(ctx context.Context, id uuid.UUID) error
}

type CompletionsRepositoryI interface {
	// Records a completion mark for (plan, user, date)
	Create(ctx context.Context, planID, userID uuid.UUID, date string) error
	// Removes the mark for (plan, user, date)
	Delete(ctx context.Context, planID, userID uuid.UUID, date string) error
	// Inspects if the mark exists
	Exists(ctx context.Context, planID, userID uuid.UUID, date string) (bool, error)
	// Lists dates the user marked on the plan
	GetByPlanAndUser(ctx context.Context, planID, userID uuid.UUID) ([]string, error)
	// Returns count of marks on the plan for the user
	CountByPlanAndUser(ctx context.Context, planID, userID uuid.UUID) (int, error)
}

type MFARepositoryI interface {
	CreateFactor(ctx context.Context, factor *entity.MFAFactor) error
	GetFactorByID(ctx context.Context, id uuid.UUID) (*entity.MFAFactor, error)
	GetFactorsByUser(ctx context.Context, uid uuid.UUID) ([]*entity.MFAFactor, error)
	UpdateFactorStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteFactor(ctx context.Context, id uuid.UUID) error
	CreateChallenge(ctx context.Context, challenge *entity.MFAChallenge) error
	GetChallenge(ctx context.Context, id uuid.UUID) (*entity.MFAChallenge, error)
	DeleteChallenge(ctx context.Context, id uuid.UUID) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
