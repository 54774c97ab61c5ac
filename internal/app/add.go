package app

import (
	"context"
	"strings"
	"time"

	"github.com/mmad4804/goal-tracker/internal/client"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

// ValidationError blocks submission before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

type AddForm struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
}

// AddController backs the plan creation tab.
type AddController struct {
	store client.RowStore
}

func NewAddController(store client.RowStore) *AddController {
	return &AddController{store: store}
}

func (ac *AddController) OnActivate(ctx context.Context) {}

func (ac *AddController) OnDeactivate() {}

func validateForm(form AddForm) error {
	if strings.TrimSpace(form.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	start, err := time.Parse(schedule.DateLayout, form.StartDate)
	if err != nil {
		return &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}
	end, err := time.Parse(schedule.DateLayout, form.EndDate)
	if err != nil {
		return &ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
	}
	if start.After(end) {
		return &ValidationError{Field: "end_date", Reason: "must not precede start date"}
	}
	return nil
}

// Submit validates the form locally and inserts the plan row. A
// validation failure aborts with no remote call.
func (ac *AddController) Submit(ctx context.Context, form AddForm) (*entity.Plan, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	return ac.store.InsertPlan(ctx, client.NewPlan{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
	})
}
