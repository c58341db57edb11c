package project

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/common/validation"
	projectDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/project"
	"github.com/samber/lo"
)

// CatalogRepository is satisfied by the projects storage collection.
type CatalogRepository interface {
	Load(ctx context.Context) []projectDatamodel.Project
	Update(ctx context.Context, fn func([]projectDatamodel.Project) ([]projectDatamodel.Project, bool)) []projectDatamodel.Project
}

// AssignmentRepository is satisfied by the user_projects storage collection.
type AssignmentRepository interface {
	Load(ctx context.Context) projectDatamodel.Assignments
	Update(ctx context.Context, fn func(projectDatamodel.Assignments) (projectDatamodel.Assignments, bool)) projectDatamodel.Assignments
}

type Service struct {
	catalog     CatalogRepository
	assignments AssignmentRepository
	logger      *slog.Logger
}

func NewService(catalog CatalogRepository, assignments AssignmentRepository, logger *slog.Logger) *Service {
	return &Service{
		catalog:     catalog,
		assignments: assignments,
		logger:      logger,
	}
}

// GetProjects returns the catalog, seeding and persisting the default set
// when it is empty.
func (s *Service) GetProjects(ctx context.Context) []Project {
	if current := s.catalog.Load(ctx); len(current) > 0 {
		return fromDataModels(current)
	}
	return fromDataModels(s.catalog.Update(ctx, s.seedIfEmpty))
}

func (s *Service) seedIfEmpty(current []projectDatamodel.Project) ([]projectDatamodel.Project, bool) {
	if len(current) > 0 {
		return current, false
	}
	s.logger.Info("project catalog empty, seeding defaults", "count", len(DefaultCatalog()))
	return toDataModels(DefaultCatalog()), true
}

// AddProject appends a project unless its abbreviation or full name already
// exists, compared case-insensitively.
func (s *Service) AddProject(ctx context.Context, abbr, full string) (*Project, error) {
	abbr = strings.TrimSpace(abbr)
	full = strings.TrimSpace(full)
	if err := validation.ValidateProjectFields(abbr, full); err != nil {
		return nil, err
	}

	var conflict bool
	s.catalog.Update(ctx, func(current []projectDatamodel.Project) ([]projectDatamodel.Project, bool) {
		current, seeded := s.seedIfEmpty(current)
		for _, p := range current {
			if FromDataModel(p).Collides(abbr, full) {
				conflict = true
				return current, seeded
			}
		}
		return append(current, projectDatamodel.Project{Abbr: abbr, Full: full}), true
	})

	if conflict {
		s.logger.Warn("project already exists", "abbr", abbr, "full", full)
		return nil, internal.ErrProjectExists
	}

	s.logger.Info("project added", "abbr", abbr, "full", full)
	return &Project{Abbr: abbr, Full: full}, nil
}

// RemoveProject drops the first project whose abbreviation matches exactly.
// Reports and assignments that mention it are left alone.
func (s *Service) RemoveProject(ctx context.Context, abbr string) bool {
	var removed bool
	s.catalog.Update(ctx, func(current []projectDatamodel.Project) ([]projectDatamodel.Project, bool) {
		current, seeded := s.seedIfEmpty(current)
		for i, p := range current {
			if p.Abbr == abbr {
				removed = true
				return append(current[:i:i], current[i+1:]...), true
			}
		}
		return current, seeded
	})

	if removed {
		s.logger.Info("project removed", "abbr", abbr)
	}
	return removed
}

// GetUserProjects returns the projects assigned to the user. No assignment,
// or one that matches nothing in the catalog, means every project.
func (s *Service) GetUserProjects(ctx context.Context, userID int64) []Project {
	all := s.GetProjects(ctx)

	abbrs, ok := s.assignments.Load(ctx)[strconv.FormatInt(userID, 10)]
	if !ok {
		return all
	}

	visible := lo.Filter(all, func(p Project, _ int) bool {
		return lo.Contains(abbrs, p.Abbr)
	})
	if len(visible) == 0 {
		return all
	}
	return visible
}

// SetUserProjects replaces the user's assignment.
func (s *Service) SetUserProjects(ctx context.Context, userID int64, abbrs []string) {
	abbrs = lo.Uniq(lo.Compact(lo.Map(abbrs, func(a string, _ int) string {
		return strings.TrimSpace(a)
	})))

	s.assignments.Update(ctx, func(current projectDatamodel.Assignments) (projectDatamodel.Assignments, bool) {
		if current == nil {
			current = projectDatamodel.NewAssignments()
		}
		current[strconv.FormatInt(userID, 10)] = abbrs
		return current, true
	})

	s.logger.Info("user projects assigned", "user_id", userID, "projects", abbrs)
}

// GetAssignments returns every explicit assignment keyed by user id.
func (s *Service) GetAssignments(ctx context.Context) map[int64][]string {
	out := make(map[int64][]string)
	for key, abbrs := range s.assignments.Load(ctx) {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			s.logger.Warn("skipping assignment with non-numeric user id", "key", key)
			continue
		}
		out[id] = append([]string(nil), abbrs...)
	}
	return out
}

// AssignedUserIDs lists the users that have an explicit assignment, ascending.
func (s *Service) AssignedUserIDs(ctx context.Context) []int64 {
	ids := lo.Keys(s.GetAssignments(ctx))
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
