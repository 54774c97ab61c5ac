package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

type ScheduleService struct {
	plans       PlansServiceI
	completions CompletionsServiceI
}

func NewScheduleService(plans PlansServiceI, completions CompletionsServiceI) *ScheduleService {
	if plans == nil || completions == nil {
		log.Fatal("on schedule service provided nil services")
	}
	return &ScheduleService{
		plans:       plans,
		completions: completions,
	}
}

// BuildSchedule computes the week-bucketed calendar for the plan with
// each day's completion state and streak shape. Malformed stored dates
// degrade to an empty week list, not an error.
func (serv *ScheduleService) BuildSchedule(ctx context.Context, planID, userID uuid.UUID) (*PlanSchedule, error) {
	plan, err := serv.plans.GetPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	dates, err := serv.completions.List(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	completed := schedule.NewCompletionSet(dates...)
	buckets := schedule.GroupByWeek(schedule.ComputeDays(plan.StartDate, plan.EndDate))
	weeks := make([]ScheduleWeek, 0, len(buckets))
	for _, bucket := range buckets {
		week := ScheduleWeek{
			Index: bucket.Index,
			Days:  make([]ScheduleDay, 0, len(bucket.Days)),
		}
		for i, day := range bucket.Days {
			week.Days = append(week.Days, ScheduleDay{
				Date:       day.Key,
				MonthLabel: day.MonthLabel,
				Completed:  completed.Has(day.Key),
				Shape:      schedule.Classify(i, bucket.Days, completed).String(),
			})
		}
		weeks = append(weeks, week)
	}
	return &PlanSchedule{
		Plan:  plan,
		Weeks: weeks,
	}, nil
}
