// Package app holds the headless screen controllers behind the mobile
// UI: navigation, the three tabs and the plan details screen. Rendering
// is left to the shell; controllers expose state and commands only.
package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type Tab string

const (
	TabHome     Tab = "home"
	TabAdd      Tab = "add"
	TabSettings Tab = "settings"
)

// Screen is the lifecycle contract between the router and a controller.
// OnActivate fires when the screen gains focus, OnDeactivate when it
// loses it.
type Screen interface {
	OnActivate(ctx context.Context)
	OnDeactivate()
}

// PlanDetailsParams is the typed route-parameter schema for the plan
// details screen.
type PlanDetailsParams struct {
	PlanID uuid.UUID
}

// DecodePlanDetailsParams validates raw route params. Decoding fails
// closed: callers must redirect to a safe default on error instead of
// pushing the screen.
func DecodePlanDetailsParams(raw map[string]string) (PlanDetailsParams, error) {
	id, err := uuid.Parse(raw["planId"])
	if err != nil {
		return PlanDetailsParams{}, err
	}
	return PlanDetailsParams{PlanID: id}, nil
}

// Router owns the tab bar and the per-tab screen stack.
type Router struct {
	tabs        map[Tab]Screen
	current     Tab
	stack       []Screen
	planDetails func(PlanDetailsParams) Screen
}

type RouterOptions struct {
	Home     Screen
	Add      Screen
	Settings Screen
	// PlanDetails constructs the details screen for validated params.
	PlanDetails func(PlanDetailsParams) Screen
}

func NewRouter(opts RouterOptions) *Router {
	return &Router{
		tabs: map[Tab]Screen{
			TabHome:     opts.Home,
			TabAdd:      opts.Add,
			TabSettings: opts.Settings,
		},
		planDetails: opts.PlanDetails,
	}
}

// Start activates the home tab.
func (r *Router) Start(ctx context.Context) {
	r.current = TabHome
	r.activateTop(ctx)
}

func (r *Router) CurrentTab() Tab {
	return r.current
}

// Active returns the screen currently in focus: the top of the stack,
// or the current tab's root when the stack is empty.
func (r *Router) Active() Screen {
	if len(r.stack) > 0 {
		return r.stack[len(r.stack)-1]
	}
	return r.tabs[r.current]
}

func (r *Router) activateTop(ctx context.Context) {
	if screen := r.Active(); screen != nil {
		screen.OnActivate(ctx)
	}
}

func (r *Router) deactivateTop() {
	if screen := r.Active(); screen != nil {
		screen.OnDeactivate()
	}
}

// SwitchTab clears the stack and focuses the tab's root screen.
func (r *Router) SwitchTab(ctx context.Context, tab Tab) {
	if _, ok := r.tabs[tab]; !ok {
		return
	}
	r.deactivateTop()
	r.stack = nil
	r.current = tab
	r.activateTop(ctx)
}

// PushPlanDetails decodes the raw params and pushes the details screen.
// Malformed params redirect to the home tab.
func (r *Router) PushPlanDetails(ctx context.Context, raw map[string]string) {
	params, err := DecodePlanDetailsParams(raw)
	if err != nil {
		slog.Warn("malformed plan details params, redirecting home", slog.String("error", err.Error()))
		r.SwitchTab(ctx, TabHome)
		return
	}
	r.deactivateTop()
	r.stack = append(r.stack, r.planDetails(params))
	r.activateTop(ctx)
}

// Pop returns to the previous screen. Popping an empty stack is a no-op.
func (r *Router) Pop(ctx context.Context) {
	if len(r.stack) == 0 {
		return
	}
	r.deactivateTop()
	r.stack = r.stack[:len(r.stack)-1]
	r.activateTop(ctx)
}
