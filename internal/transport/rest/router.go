package rest

import (
	"log/slog"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/export"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/internal/project"
	"github.com/frahmantamala/timesheet/internal/reminder"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/frahmantamala/timesheet/internal/summary"
	"github.com/frahmantamala/timesheet/internal/transport/middleware"
	"github.com/frahmantamala/timesheet/internal/transport/swagger"
	"github.com/frahmantamala/timesheet/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Health   *HealthHandler
	User     *user.Handler
	Project  *project.Handler
	Report   *report.Handler
	Summary  *summary.Handler
	Notify   *notify.Handler
	Reminder *reminder.Handler
	Export   *export.Handler

	Admins    internal.AdminSet
	Origins   []string
	Validator *middleware.RequestValidator
	Spec      []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	router.Use(middleware.CORS(h.Origins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if len(h.Spec) > 0 {
		router.Get(swagger.SpecPath, swagger.SpecHandler(h.Spec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Identity)
			if h.Validator != nil {
				pr.Use(h.Validator.Middleware)
			}

			if h.User != nil {
				pr.Post("/users/register", h.User.RegisterUser)
			}
			if h.Summary != nil {
				pr.Get("/summary", h.Summary.GetSummary)
			}
			if h.Project != nil {
				pr.Get("/projects", h.Project.GetProjects)
			}
			if h.Report != nil {
				pr.Post("/reports", h.Report.SubmitReport)
				pr.Get("/reports", h.Report.GetMyReports)
			}

			// admin only
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireAdmin(h.Admins))

				if h.User != nil {
					ar.Get("/users", h.User.ListUsers)
					ar.Get("/users/{id}", h.User.GetUser)
				}
				if h.Report != nil {
					ar.Get("/reports/all", h.Report.GetAllReports)
					ar.Delete("/users/{id}/reports", h.Report.DeleteUserReports)
				}
				if h.Project != nil {
					ar.Post("/projects", h.Project.CreateProject)
					ar.Delete("/projects/{abbr}", h.Project.DeleteProject)
					ar.Put("/users/{id}/projects", h.Project.AssignProjects)
					ar.Get("/assignments", h.Project.GetAssignments)
				}
				if h.Notify != nil {
					ar.Post("/notify", h.Notify.Broadcast)
				}
				if h.Reminder != nil {
					ar.Post("/reminders/run", h.Reminder.Run)
					ar.Get("/reminders", h.Reminder.Status)
				}
				if h.Export != nil {
					ar.Get("/export", h.Export.Export)
				}
			})
		})
	})
}
