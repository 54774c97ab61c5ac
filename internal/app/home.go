package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/internal/client"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

// HomeController backs the plan list tab. Every activation reloads the
// list so changes made on other screens show up on return.
type HomeController struct {
	store client.RowStore

	mu      sync.Mutex
	plans   []*entity.Plan
	loadErr error
}

func NewHomeController(store client.RowStore) *HomeController {
	return &HomeController{store: store}
}

func (hc *HomeController) OnActivate(ctx context.Context) {
	hc.reload(ctx)
}

func (hc *HomeController) OnDeactivate() {}

func (hc *HomeController) reload(ctx context.Context) {
	plans, err := hc.store.SelectPlans(ctx)
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if err != nil {
		slog.Error("loading plans failed", slog.String("error", err.Error()))
		hc.loadErr = err
		return
	}
	hc.plans = plans
	hc.loadErr = nil
}

func (hc *HomeController) Plans() []*entity.Plan {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.plans
}

func (hc *HomeController) LoadErr() error {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.loadErr
}

// DeletePlan removes the plan remotely and refreshes the list.
func (hc *HomeController) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	if err := hc.store.DeletePlan(ctx, planID); err != nil {
		slog.Error("deleting plan failed", slog.String("error", err.Error()))
		return err
	}
	hc.reload(ctx)
	return nil
}
