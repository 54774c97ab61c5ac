package main

import (
	"log"

	"github.com/mmad4804/goal-tracker/internal/api"
	"github.com/mmad4804/goal-tracker/internal/repository"
	"github.com/mmad4804/goal-tracker/internal/service"
	"github.com/mmad4804/goal-tracker/pkg/cleanup"
	"github.com/mmad4804/goal-tracker/pkg/config"
	jwtservice "github.com/mmad4804/goal-tracker/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	plansRepo := repository.NewPlansRepo(&dbCfg)
	plansService := service.NewPlansService(plansRepo)
	completionsService := service.NewCompletionsService(plansRepo, repository.NewCompletionsRepo(&dbCfg))
	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo),
		PlansService:       plansService,
		CompletionsService: completionsService,
		MFAService:         service.NewMFAService(usersRepo, repository.NewMFARepo(&dbCfg)),
		ScheduleService:    service.NewScheduleService(plansService, completionsService),
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
