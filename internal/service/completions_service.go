package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/repository"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

type CompletionsService struct {
	plansRepo       repository.PlansRepositoryI
	completionsRepo repository.CompletionsRepositoryI
}

func NewCompletionsService(plansRepo repository.PlansRepositoryI, completionsRepo repository.CompletionsRepositoryI) *CompletionsService {
	if plansRepo == nil || completionsRepo == nil {
		log.Fatal("on completions service provided nil repos")
	}
	return &CompletionsService{
		plansRepo:       plansRepo,
		completionsRepo: completionsRepo,
	}
}

// checkDay asserts the caller owns the plan and the date is a valid
// calendar day inside the plan's inclusive range.
func (serv *CompletionsService) checkDay(ctx context.Context, planID, userID uuid.UUID, date string) error {
	plan, err := serv.plansRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrPlanNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	if plan.CreatorID != userID {
		return errorvalues.ErrWrongOwner
	}
	day, err := time.Parse(schedule.DateLayout, date)
	if err != nil {
		return errorvalues.ErrBadDate
	}
	start, _ := time.Parse(schedule.DateLayout, plan.StartDate)
	end, _ := time.Parse(schedule.DateLayout, plan.EndDate)
	if day.Before(start) || day.After(end) {
		return errorvalues.ErrDateOutOfRange
	}
	return nil
}

// Toggle enforces the one-mark-per-(plan, user, date) invariant: an
// existing mark is removed, a missing one is created.
func (serv *CompletionsService) Toggle(ctx context.Context, planID, userID uuid.UUID, date string) (bool, error) {
	if err := serv.checkDay(ctx, planID, userID, date); err != nil {
		return false, err
	}
	exists, err := serv.completionsRepo.Exists(ctx, planID, userID, date)
	if err != nil {
		return false, errors.New("repository error: " + err.Error())
	}
	if exists {
		err = serv.completionsRepo.Delete(ctx, planID, userID, date)
		if err != nil {
			return false, errors.New("repository error: " + err.Error())
		}
		return false, nil
	}
	err = serv.completionsRepo.Create(ctx, planID, userID, date)
	if err != nil {
		return false, errors.New("repository error: " + err.Error())
	}
	return true, nil
}

// Mark is the idempotent-intent counterpart to Toggle: marking an already
// marked day fails with ErrMarkExists instead of silently flipping it.
func (serv *CompletionsService) Mark(ctx context.Context, planID, userID uuid.UUID, date string) error {
	if err := serv.checkDay(ctx, planID, userID, date); err != nil {
		return err
	}
	err := serv.completionsRepo.Create(ctx, planID, userID, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMarkExists) || errors.Is(err, errorvalues.ErrPlanNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (serv *CompletionsService) Unmark(ctx context.Context, planID, userID uuid.UUID, date string) error {
	if err := serv.checkDay(ctx, planID, userID, date); err != nil {
		return err
	}
	err := serv.completionsRepo.Delete(ctx, planID, userID, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMarkNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (serv *CompletionsService) List(ctx context.Context, planID, userID uuid.UUID) ([]string, error) {
	plan, err := serv.plansRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrPlanNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if plan.CreatorID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	dates, err := serv.completionsRepo.GetByPlanAndUser(ctx, planID, userID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return dates, nil
}
