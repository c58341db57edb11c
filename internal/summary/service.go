package summary

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/timesheet/internal/project"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/frahmantamala/timesheet/internal/user"
)

type ReportReader interface {
	GetAllReports(ctx context.Context, days int) []report.Report
}

type ProjectReader interface {
	GetProjects(ctx context.Context) []project.Project
	GetUserProjects(ctx context.Context, userID int64) []project.Project
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*user.User, bool)
	GetAllUsers(ctx context.Context) []*user.User
	IsAdmin(id int64) bool
}

// Service recomputes every figure from the stored collections on each call;
// nothing is cached.
type Service struct {
	reports  ReportReader
	projects ProjectReader
	users    UserDirectory
	logger   *slog.Logger
}

func NewService(reports ReportReader, projects ProjectReader, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		reports:  reports,
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

func (s *Service) BuildSummary(ctx context.Context, userID int64) Payload {
	reports := s.reports.GetAllReports(ctx, 0)
	isAdmin := s.users.IsAdmin(userID)

	payload := Payload{
		Admin:       isAdmin,
		UserID:      userID,
		Projects:    s.projects.GetUserProjects(ctx, userID),
		AllProjects: s.projects.GetProjects(ctx),
		AllUsers:    []UserRef{},
		UserStats:   BuildUserStats(reports, userID),
	}
	if u, ok := s.users.GetUser(ctx, userID); ok {
		payload.Username = u.Username
	}
	for _, u := range s.users.GetAllUsers(ctx) {
		payload.AllUsers = append(payload.AllUsers, UserRef{ID: u.ID, Username: u.Username})
	}
	if isAdmin {
		payload.AdminStats = BuildAdminStats(reports)
	}

	s.logger.Debug("summary built",
		"user_id", userID,
		"admin", isAdmin,
		"reports", len(reports))
	return payload
}
