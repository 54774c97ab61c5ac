package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/internal/client"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

// writeCommand is one queued completion write: mark or unmark a date.
type writeCommand struct {
	date string
	mark bool
}

// DayCell is one calendar cell of the plan details grid.
type DayCell struct {
	Key        string
	MonthLabel string
	Completed  bool
	Shape      schedule.ShapeClass
}

type WeekRow struct {
	Index int
	Days  []DayCell
}

// PlanDetailsController backs the calendar screen. Toggles mutate the
// local completion set immediately and flow through a serialized write
// queue; a failed write reverts the local state and leaves a transient
// notice. Deactivating the screen cancels the queue, dropping writes
// that never started.
type PlanDetailsController struct {
	store  client.RowStore
	planID uuid.UUID

	mu        sync.Mutex
	plan      *entity.Plan
	completed schedule.CompletionSet
	loadErr   error
	notices   []string

	queue  chan writeCommand
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPlanDetailsController(store client.RowStore, params PlanDetailsParams) *PlanDetailsController {
	return &PlanDetailsController{
		store:     store,
		planID:    params.PlanID,
		completed: schedule.NewCompletionSet(),
	}
}

func (pc *PlanDetailsController) OnActivate(ctx context.Context) {
	pc.load(ctx)
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.cancel != nil {
		return
	}
	// The queue outlives the activation event and stops on deactivate
	queueCtx, cancel := context.WithCancel(context.Background())
	pc.cancel = cancel
	pc.queue = make(chan writeCommand, 32)
	pc.done = make(chan struct{})
	go pc.drainQueue(queueCtx)
}

func (pc *PlanDetailsController) OnDeactivate() {
	pc.mu.Lock()
	cancel, done := pc.cancel, pc.done
	pc.cancel = nil
	pc.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (pc *PlanDetailsController) load(ctx context.Context) {
	plans, err := pc.store.SelectPlans(ctx)
	if err != nil {
		slog.Error("loading plan failed", slog.String("error", err.Error()))
		pc.mu.Lock()
		pc.loadErr = err
		pc.mu.Unlock()
		return
	}
	var plan *entity.Plan
	for _, p := range plans {
		if p.ID == pc.planID {
			plan = p
			break
		}
	}
	dates, err := pc.store.SelectCompleted(ctx, pc.planID)
	if err != nil {
		slog.Error("loading completed days failed", slog.String("error", err.Error()))
		pc.mu.Lock()
		pc.loadErr = err
		pc.mu.Unlock()
		return
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.plan = plan
	pc.completed = schedule.NewCompletionSet(dates...)
	pc.loadErr = nil
}

func (pc *PlanDetailsController) Plan() *entity.Plan {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.plan
}

func (pc *PlanDetailsController) LoadErr() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.loadErr
}

func (pc *PlanDetailsController) Completed(date string) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.completed.Has(date)
}

// Schedule computes the week-bucketed render model from the plan range
// and the current completion set. A missing or date-broken plan yields
// an empty grid.
func (pc *PlanDetailsController) Schedule() []WeekRow {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.plan == nil {
		return nil
	}
	days := schedule.ComputeDays(pc.plan.StartDate, pc.plan.EndDate)
	buckets := schedule.GroupByWeek(days)
	rows := make([]WeekRow, 0, len(buckets))
	for _, bucket := range buckets {
		row := WeekRow{Index: bucket.Index, Days: make([]DayCell, 0, len(bucket.Days))}
		for i, day := range bucket.Days {
			row.Days = append(row.Days, DayCell{
				Key:        day.Key,
				MonthLabel: day.MonthLabel,
				Completed:  pc.completed.Has(day.Key),
				Shape:      schedule.Classify(i, bucket.Days, pc.completed),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// Toggle flips the date locally and enqueues the matching remote write.
func (pc *PlanDetailsController) Toggle(date string) {
	pc.mu.Lock()
	if pc.cancel == nil {
		pc.mu.Unlock()
		return
	}
	marked := pc.completed.Toggle(date)
	queue := pc.queue
	pc.mu.Unlock()

	cmd := writeCommand{date: date, mark: marked}
	select {
	case queue <- cmd:
	default:
		// Queue saturated, give the toggle back
		pc.revert(cmd, "too many pending changes, try again")
	}
}

func (pc *PlanDetailsController) drainQueue(ctx context.Context) {
	defer close(pc.done)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-pc.queue:
			pc.apply(ctx, cmd)
		}
	}
}

func (pc *PlanDetailsController) apply(ctx context.Context, cmd writeCommand) {
	var err error
	if cmd.mark {
		err = pc.store.InsertCompleted(ctx, pc.planID, cmd.date)
		// The remote already agreeing with us is not a failure
		if client.IsConflict(err) {
			err = nil
		}
	} else {
		err = pc.store.DeleteCompleted(ctx, pc.planID, cmd.date)
		if client.IsNotFound(err) {
			err = nil
		}
	}
	if err != nil {
		slog.Error("completion write failed", slog.String("date", cmd.date), slog.String("error", err.Error()))
		pc.revert(cmd, "couldn't save "+cmd.date+", change undone")
	}
}

// revert undoes the optimistic flip for cmd unless a later toggle
// already moved the date again.
func (pc *PlanDetailsController) revert(cmd writeCommand, notice string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.completed.Has(cmd.date) == cmd.mark {
		pc.completed.Toggle(cmd.date)
	}
	pc.notices = append(pc.notices, notice)
}

// Notices drains and returns the pending transient notices.
func (pc *PlanDetailsController) Notices() []string {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	notices := pc.notices
	pc.notices = nil
	return notices
}
