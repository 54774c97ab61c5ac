package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/repository"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/mmad4804/goal-tracker/pkg/schedule"
)

type PlansService struct {
	repo repository.PlansRepositoryI
}

func NewPlansService(plansRepo repository.PlansRepositoryI) *PlansService {
	if plansRepo == nil {
		log.Fatal("provided nil plansRepo")
	}
	return &PlansService{
		repo: plansRepo,
	}
}

func (ps *PlansService) CreatePlan(ctx context.Context, uid uuid.UUID, req CreatePlanRequest) (*entity.Plan, error) {
	err := validate.Struct(req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	// datetime tags guarantee both parse
	start, _ := time.Parse(schedule.DateLayout, req.StartDate)
	end, _ := time.Parse(schedule.DateLayout, req.EndDate)
	if start.After(end) {
		return nil, errorvalues.ErrDateOutOfRange
	}
	p := entity.Plan{
		CreatorID:   uid,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	id, err := ps.repo.Create(ctx, &p)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("plans repository error: " + err.Error())
	}
	plan, err := ps.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrPlanNotFound) {
			return nil, err
		}
		return nil, errors.New("plans repository error: " + err.Error())
	}
	return plan, nil
}

func (ps *PlansService) GetPlan(ctx context.Context, planID, userID uuid.UUID) (*entity.Plan, error) {
	plan, err := ps.repo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrPlanNotFound) {
			return nil, err
		}
		return nil, errors.New("plans repository error: " + err.Error())
	}
	if plan.CreatorID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return plan, nil
}

func (ps *PlansService) GetUserPlans(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Plan, error) {
	plans, err := ps.repo.GetByCreator(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("plans repository error: " + err.Error())
	}
	return plans, nil
}

func (ps *PlansService) DeletePlan(ctx context.Context, planID, userID uuid.UUID) error {
	plan, err := ps.repo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrPlanNotFound) {
			return err
		}
		return errors.New("plans repository error: " + err.Error())
	}
	if plan.CreatorID != userID {
		return errorvalues.ErrWrongOwner
	}
	err = ps.repo.Delete(ctx, planID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrPlanNotFound) {
			return err
		}
		return errors.New("plans repository error: " + err.Error())
	}
	return nil
}
