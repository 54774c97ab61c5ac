package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/repository"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupTestDB(t *testing.T) *testPGConfig {
	t.Helper()
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("goal_tracker"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
	return &testPGConfig{connStr: connStr}
}

func TestRepositoriesIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cfg := setupTestDB(t)
	usersRepo := repository.NewUsersRepo(cfg)
	plansRepo := repository.NewPlansRepo(cfg)
	completionsRepo := repository.NewCompletionsRepo(cfg)
	mfaRepo := repository.NewMFARepo(cfg)
	ctx := context.Background()

	var user *entity.User
	t.Run("users", func(t *testing.T) {
		err := usersRepo.Create(ctx, &entity.User{
			Email:        "it@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)
		assert.ErrorIs(t, usersRepo.Create(ctx, &entity.User{
			Email:        "it@example.com",
			PasswordHash: "hash",
		}), errorvalues.ErrUserExists)
		user, err = usersRepo.FindByEmail(ctx, "it@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.UUID{}, user.ID)
	})

	var planID uuid.UUID
	t.Run("plans", func(t *testing.T) {
		var err error
		planID, err = plansRepo.Create(ctx, &entity.Plan{
			CreatorID:   user.ID,
			Title:       "integration plan",
			Description: "spans june",
			StartDate:   "2024-06-01",
			EndDate:     "2024-06-30",
		})
		require.NoError(t, err)
		plan, err := plansRepo.GetByID(ctx, planID)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", plan.StartDate)
		assert.Equal(t, "2024-06-30", plan.EndDate)

		_, err = plansRepo.Create(ctx, &entity.Plan{
			CreatorID: uuid.New(),
			Title:     "orphan",
			StartDate: "2024-06-01",
			EndDate:   "2024-06-30",
		})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)

		plans, err := plansRepo.GetByCreator(ctx, user.ID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, plans, 1)
	})

	t.Run("completions", func(t *testing.T) {
		require.NoError(t, completionsRepo.Create(ctx, planID, user.ID, "2024-06-02"))
		assert.ErrorIs(t, completionsRepo.Create(ctx, planID, user.ID, "2024-06-02"), errorvalues.ErrMarkExists)
		assert.ErrorIs(t, completionsRepo.Create(ctx, uuid.New(), user.ID, "2024-06-02"), errorvalues.ErrPlanNotFound)

		exists, err := completionsRepo.Exists(ctx, planID, user.ID, "2024-06-02")
		require.NoError(t, err)
		assert.True(t, exists)

		dates, err := completionsRepo.GetByPlanAndUser(ctx, planID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-06-02"}, dates)

		require.NoError(t, completionsRepo.Delete(ctx, planID, user.ID, "2024-06-02"))
		assert.ErrorIs(t, completionsRepo.Delete(ctx, planID, user.ID, "2024-06-02"), errorvalues.ErrMarkNotFound)
	})

	t.Run("mfa", func(t *testing.T) {
		factor := &entity.MFAFactor{
			ID:     uuid.New(),
			UserID: user.ID,
			Type:   entity.FactorTypeTOTP,
			Status: entity.FactorStatusPending,
			Secret: "JBSWY3DPEHPK3PXP",
		}
		require.NoError(t, mfaRepo.CreateFactor(ctx, factor))
		require.NoError(t, mfaRepo.UpdateFactorStatus(ctx, factor.ID, entity.FactorStatusVerified))
		stored, err := mfaRepo.GetFactorByID(ctx, factor.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.FactorStatusVerified, stored.Status)

		challenge := &entity.MFAChallenge{
			ID:        uuid.New(),
			FactorID:  factor.ID,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		require.NoError(t, mfaRepo.CreateChallenge(ctx, challenge))
		require.NoError(t, mfaRepo.DeleteChallenge(ctx, challenge.ID))
		assert.ErrorIs(t, mfaRepo.DeleteChallenge(ctx, challenge.ID), errorvalues.ErrChallengeNotFound)

		require.NoError(t, mfaRepo.DeleteFactor(ctx, factor.ID))
	})

	t.Run("cascade on user deletion", func(t *testing.T) {
		require.NoError(t, usersRepo.Delete(ctx, user.ID))
		_, err := plansRepo.GetByID(ctx, planID)
		assert.ErrorIs(t, err, errorvalues.ErrPlanNotFound)
	})
}
