package app_test

import (
	"context"
	"testing"

	"github.com/mmad4804/goal-tracker/internal/app"
	"github.com/mmad4804/goal-tracker/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanForm() client.NewPlan {
	return client.NewPlan{
		Title:     "evening reading",
		StartDate: "2024-07-01",
		EndDate:   "2024-07-31",
	}
}

func TestAddSubmit(t *testing.T) {
	store := newFakeRowStore()
	ac := app.NewAddController(store)
	ctx := context.Background()

	plan, err := ac.Submit(ctx, app.AddForm{
		Title:       "  evening reading ",
		Description: "30 minutes",
		StartDate:   "2024-07-01",
		EndDate:     "2024-07-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "evening reading", plan.Title)

	plans, err := store.SelectPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestAddValidation(t *testing.T) {
	store := newFakeRowStore()
	ac := app.NewAddController(store)
	ctx := context.Background()

	testCases := []struct {
		Name  string
		Form  app.AddForm
		Field string
	}{
		{
			Name:  "empty title",
			Form:  app.AddForm{Title: "   ", StartDate: "2024-07-01", EndDate: "2024-07-31"},
			Field: "title",
		},
		{
			Name:  "malformed start date",
			Form:  app.AddForm{Title: "x", StartDate: "01.07.2024", EndDate: "2024-07-31"},
			Field: "start_date",
		},
		{
			Name:  "malformed end date",
			Form:  app.AddForm{Title: "x", StartDate: "2024-07-01", EndDate: "tomorrow"},
			Field: "end_date",
		},
		{
			Name:  "end before start",
			Form:  app.AddForm{Title: "x", StartDate: "2024-07-31", EndDate: "2024-07-01"},
			Field: "end_date",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := ac.Submit(ctx, tc.Form)
			var vErr *app.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.Field, vErr.Field)
		})
	}
	// Validation failures never reach the store
	plans, err := store.SelectPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}
