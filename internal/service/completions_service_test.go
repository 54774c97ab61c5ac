package service_test

import (
	"context"
	"testing"

	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCompletion(t *testing.T) {
	plansMock := &plansRepoMock{state: stateSuccess}
	marksMock := newCompletionsRepoMock()
	s := service.NewCompletionsService(plansMock, marksMock)
	ctx := context.Background()
	t.Run("marks an unmarked day", func(t *testing.T) {
		marked, err := s.Toggle(ctx, testPlanID, testUserID, "2024-06-02")
		require.NoError(t, err)
		assert.True(t, marked)
	})
	t.Run("unmarks a marked day", func(t *testing.T) {
		marked, err := s.Toggle(ctx, testPlanID, testUserID, "2024-06-02")
		require.NoError(t, err)
		assert.False(t, marked)
	})
	t.Run("double toggle restores original state", func(t *testing.T) {
		before := len(marksMock.marks)
		_, err := s.Toggle(ctx, testPlanID, testUserID, "2024-06-10")
		require.NoError(t, err)
		_, err = s.Toggle(ctx, testPlanID, testUserID, "2024-06-10")
		require.NoError(t, err)
		assert.Len(t, marksMock.marks, before)
	})
	t.Run("malformed date", func(t *testing.T) {
		_, err := s.Toggle(ctx, testPlanID, testUserID, "junk")
		assert.ErrorIs(t, err, errorvalues.ErrBadDate)
	})
	t.Run("date before plan start", func(t *testing.T) {
		_, err := s.Toggle(ctx, testPlanID, testUserID, "2024-05-31")
		assert.ErrorIs(t, err, errorvalues.ErrDateOutOfRange)
	})
	t.Run("date after plan end", func(t *testing.T) {
		_, err := s.Toggle(ctx, testPlanID, testUserID, "2024-07-01")
		assert.ErrorIs(t, err, errorvalues.ErrDateOutOfRange)
	})
	t.Run("wrong owner", func(t *testing.T) {
		plansMock.state = stateWrongOwner
		_, err := s.Toggle(ctx, testPlanID, testUserID, "2024-06-02")
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
		plansMock.state = stateSuccess
	})
	t.Run("plan not found", func(t *testing.T) {
		plansMock.state = stateNotFound
		_, err := s.Toggle(ctx, testPlanID, testUserID, "2024-06-02")
		assert.ErrorIs(t, err, errorvalues.ErrPlanNotFound)
		plansMock.state = stateSuccess
	})
	t.Run("repository failure", func(t *testing.T) {
		marksMock.fail = true
		_, err := s.Toggle(ctx, testPlanID, testUserID, "2024-06-02")
		assert.Error(t, err)
		marksMock.fail = false
	})
}

func TestMarkAndUnmark(t *testing.T) {
	plansMock := &plansRepoMock{state: stateSuccess}
	marksMock := newCompletionsRepoMock()
	s := service.NewCompletionsService(plansMock, marksMock)
	ctx := context.Background()
	t.Run("mark", func(t *testing.T) {
		require.NoError(t, s.Mark(ctx, testPlanID, testUserID, "2024-06-05"))
		assert.Contains(t, marksMock.marks, "2024-06-05")
	})
	t.Run("mark twice conflicts", func(t *testing.T) {
		assert.ErrorIs(t, s.Mark(ctx, testPlanID, testUserID, "2024-06-05"), errorvalues.ErrMarkExists)
	})
	t.Run("unmark", func(t *testing.T) {
		require.NoError(t, s.Unmark(ctx, testPlanID, testUserID, "2024-06-05"))
		assert.NotContains(t, marksMock.marks, "2024-06-05")
	})
	t.Run("unmark missing", func(t *testing.T) {
		assert.ErrorIs(t, s.Unmark(ctx, testPlanID, testUserID, "2024-06-05"), errorvalues.ErrMarkNotFound)
	})
	t.Run("mark outside range", func(t *testing.T) {
		assert.ErrorIs(t, s.Mark(ctx, testPlanID, testUserID, "2024-07-15"), errorvalues.ErrDateOutOfRange)
	})
}

func TestListCompletions(t *testing.T) {
	plansMock := &plansRepoMock{state: stateSuccess}
	marksMock := newCompletionsRepoMock("2024-06-03", "2024-06-02")
	s := service.NewCompletionsService(plansMock, marksMock)
	ctx := context.Background()
	t.Run("sorted dates", func(t *testing.T) {
		dates, err := s.List(ctx, testPlanID, testUserID)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-06-02", "2024-06-03"}, dates)
	})
	t.Run("wrong owner", func(t *testing.T) {
		plansMock.state = stateWrongOwner
		_, err := s.List(ctx, testPlanID, testUserID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}
