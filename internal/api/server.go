package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mmad4804/goal-tracker/internal/service"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	plansService       service.PlansServiceI
	completionsService service.CompletionsServiceI
	mfaService         service.MFAServiceI
	scheduleService    service.ScheduleServiceI
	jwtService         JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	PlansService       service.PlansServiceI
	CompletionsService service.CompletionsServiceI
	MFAService         service.MFAServiceI
	ScheduleService    service.ScheduleServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		plansService:       servicesOptions.PlansService,
		completionsService: servicesOptions.CompletionsService,
		mfaService:         servicesOptions.MFAService,
		scheduleService:    servicesOptions.ScheduleService,
		jwtService:         servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Post("/auth/refresh", s.Refresh)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Post("/auth/logout", s.Logout)
			r.Get("/factors", s.ListFactors)
			r.Post("/factors", s.EnrollFactor)
			r.Post("/factors/{id}/challenge", s.ChallengeFactor)
			r.Post("/factors/{id}/verify", s.VerifyFactor)
			r.Delete("/factors/{id}", s.UnenrollFactor)
			r.Post("/plans", s.CreatePlan)
			r.Get("/plans", s.GetPlans)
			r.Get("/plans/{id}", s.GetPlan)
			r.Delete("/plans/{id}", s.DeletePlan)
			r.Get("/plans/{id}/schedule", s.GetSchedule)
			r.Get("/plans/{id}/completed", s.GetCompleted)
			r.Post("/plans/{id}/completed", s.MarkCompleted)
			r.Delete("/plans/{id}/completed/{date}", s.UnmarkCompleted)
			r.Post("/plans/{id}/completed/toggle", s.ToggleCompleted)
		})
	})
}

// Handler exposes the mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}
