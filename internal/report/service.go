package report

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	reportDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/report"
	"github.com/frahmantamala/timesheet/internal/core/events"
	"github.com/samber/lo"
)

// Repository is satisfied by the reports storage collection.
type Repository interface {
	Load(ctx context.Context) []reportDatamodel.Report
	Update(ctx context.Context, fn func([]reportDatamodel.Report) ([]reportDatamodel.Report, bool)) []reportDatamodel.Report
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	clock     clock.Clock
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService wires the ledger; publisher may be nil when nothing listens.
func NewService(repo Repository, clk clock.Clock, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		clock:     clk,
		publisher: publisher,
		logger:    logger,
	}
}

// AddReport appends a single report stamped with the current time.
func (s *Service) AddReport(ctx context.Context, userID int64, username, project string, hours float64, comments string) Report {
	created := s.append(ctx, userID, username, []Item{{Project: project, Hours: hours}}, comments)
	return created[0]
}

// SubmitReport stores one report per item. All of them share the comment and
// a single clock reading, then a report.submitted event is published. A line
// without a project rejects the whole submission.
func (s *Service) SubmitReport(ctx context.Context, userID int64, username string, items []Item, comment string) ([]Report, error) {
	if len(items) == 0 {
		return nil, internal.ErrEmptySubmission
	}
	if lo.ContainsBy(items, func(it Item) bool { return strings.TrimSpace(it.Project) == "" }) {
		return nil, internal.NewValidationFieldError("projects", "every line needs a project", internal.ErrCodeInvalidProject)
	}
	if strings.TrimSpace(comment) == "" {
		comment = DefaultComment
	}

	created := s.append(ctx, userID, username, items, comment)

	if s.publisher != nil {
		submitted := lo.Map(items, func(it Item, _ int) events.SubmittedItem {
			return events.SubmittedItem{Project: it.Project, Hours: it.Hours}
		})
		event := events.NewReportSubmittedEvent(userID, username, submitted, comment, created[0].Date)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish report submitted event", "user_id", userID, "error", err)
		}
	}

	return created, nil
}

func (s *Service) append(ctx context.Context, userID int64, username string, items []Item, comment string) []Report {
	now := s.clock.Now()
	created := make([]Report, len(items))
	for i, item := range items {
		created[i] = NewReport(userID, username, item, comment, now)
	}

	s.repo.Update(ctx, func(current []reportDatamodel.Report) ([]reportDatamodel.Report, bool) {
		for _, r := range created {
			current = append(current, ToDataModel(r))
		}
		return current, true
	})

	s.logger.Info("reports added",
		"user_id", userID,
		"username", username,
		"count", len(created),
		"date", now.Format(clock.DateLayout))
	return created
}

// GetUserReports returns the user's reports in ledger order. days <= 0
// means the whole history, otherwise reports dated on or after today-days.
func (s *Service) GetUserReports(ctx context.Context, userID int64, days int) []Report {
	return s.query(ctx, days, func(r reportDatamodel.Report) bool {
		return r.UserID == userID
	})
}

func (s *Service) GetAllReports(ctx context.Context, days int) []Report {
	return s.query(ctx, days, func(reportDatamodel.Report) bool { return true })
}

func (s *Service) query(ctx context.Context, days int, match func(reportDatamodel.Report) bool) []Report {
	cutoff := ""
	if days > 0 {
		cutoff = clock.DaysAgo(s.clock, days)
	}

	out := []Report{}
	for _, r := range s.repo.Load(ctx) {
		if !match(r) {
			continue
		}
		if cutoff != "" && r.Date < cutoff {
			continue
		}
		out = append(out, FromDataModel(r))
	}
	return out
}

// DeleteUserReports removes every report of the user and returns how many
// were dropped.
func (s *Service) DeleteUserReports(ctx context.Context, userID int64) int {
	var removed int
	s.repo.Update(ctx, func(current []reportDatamodel.Report) ([]reportDatamodel.Report, bool) {
		kept := lo.Reject(current, func(r reportDatamodel.Report, _ int) bool {
			return r.UserID == userID
		})
		removed = len(current) - len(kept)
		return kept, removed > 0
	})

	s.logger.Info("user reports deleted", "user_id", userID, "count", removed)
	if removed > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewReportsPurgedEvent(userID, removed)); err != nil {
			s.logger.Error("failed to publish reports purged event", "user_id", userID, "error", err)
		}
	}
	return removed
}

// ReportedUserIDs returns the users with at least one report dated date.
func (s *Service) ReportedUserIDs(ctx context.Context, date string) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, r := range s.repo.Load(ctx) {
		if r.Date == date {
			out[r.UserID] = struct{}{}
		}
	}
	return out
}
